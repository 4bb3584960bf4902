package api

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alex-pricope/election-voting-system/api/controllers"
	"github.com/alex-pricope/election-voting-system/api/transport"
	"github.com/alex-pricope/election-voting-system/logging"
	"github.com/alex-pricope/election-voting-system/results"
	"github.com/alex-pricope/election-voting-system/storage"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
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

	dynamoClient := dynamodb.NewFromConfig(cfg)

	electionStorage := &storage.DynamoElectionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameElections,
	}
	positionStorage := &storage.DynamoPositionStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNamePositions,
	}
	candidateStorage := &storage.DynamoCandidateStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameCandidates,
	}
	voteStorage := &storage.DynamoVoteStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameVotes,
	}
	voterStorage := &storage.DynamoVoterStorage{
		Client:    dynamoClient,
		TableName: s.config.TableNameVoters,
	}

	// One aggregator for the whole process; controllers only read from it.
	aggregator := results.NewAggregator(
		electionStorage,
		positionStorage,
		candidateStorage,
		voteStorage,
		voterStorage,
		time.Duration(s.config.RefreshIntervalSeconds)*time.Second,
	)

	//Register controllers
	votingController := controllers.NewVotingController(electionStorage, positionStorage, candidateStorage, voteStorage)
	votingController.RegisterRoutes(r)
	resultsController := controllers.NewResultsController(aggregator)
	resultsController.RegisterRoutes(r)
	adminController := controllers.NewAdminController(electionStorage, voterStorage)
	adminController.RegisterRoutes(r)
	metaPositionsController := controllers.NewPositionMetaController(positionStorage, candidateStorage)
	metaPositionsController.RegisterRoutes(r)
	metaCandidatesController := controllers.NewCandidateMetaController(candidateStorage)
	metaCandidatesController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		// A long-lived process keeps results warm on its own.
		aggregator.StartRefresh(context.Background())
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
