package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/oksasatya/task-manager-api/config"
	"github.com/oksasatya/task-manager-api/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetMongo(db *mongo.Database)   { mongoDB = db }
func GetMongo() *mongo.Database     { return mongoDB }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }
