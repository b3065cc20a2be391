package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/ballothub/election-backend/api/controllers"
	"github.com/ballothub/election-backend/api/transport"
	"github.com/ballothub/election-backend/election"
	"github.com/ballothub/election-backend/logging"
	"github.com/ballothub/election-backend/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logging.Log.Errorf("failed to load AWS config: %v", err)
		panic("failed to load AWS config")
	}

	store := &storage.DynamoStore{
		Client:    dynamodb.NewFromConfig(cfg),
		TableName: s.config.TableName,
	}

	service := election.NewService(store)
	if err := service.EnsureSuperAdmin(context.Background()); err != nil {
		logging.Log.Errorf("failed to seed super admin account: %v", err)
		panic("failed to seed super admin account")
	}

	//Register controllers
	authController := controllers.NewAuthController(service)
	authController.RegisterRoutes(r)
	publicController := controllers.NewPublicController(service)
	publicController.RegisterRoutes(r)
	votingController := controllers.NewVotingController(service)
	votingController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(service)
	adminController.RegisterRoutes(r)
	superAdminController := controllers.NewSuperAdminController(service)
	superAdminController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on port 8080
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
