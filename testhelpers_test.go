//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/adoptly/service-adoption/internal/application"
	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"github.com/adoptly/service-adoption/internal/platform/kafka"
	"github.com/adoptly/service-adoption/internal/platform/mongodb"
	"github.com/adoptly/service-adoption/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	mongomodule "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testTopic = "adoption.events"

// testInfra holds shared test infrastructure.
type testInfra struct {
	Mongo        *mongodb.Connection
	KafkaBrokers []string
	Cleanup      func()
}

// adoptionStack holds wired-up adoption service components.
type adoptionStack struct {
	Service         *application.RequestService
	Requests        *repository.MongoRequestRepository
	Pets            *repository.MongoPetRepository
	CleanupProducer func()
}

// setupContainers starts MongoDB and Kafka testcontainers and returns a connected database.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	// Start MongoDB.
	mongoContainer, err := mongomodule.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start MongoDB container")

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	conn, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      uri,
		Database: fmt.Sprintf("adoptly_test_%s", uuid.New().String()[:8]),
		Timeout:  30 * time.Second,
	}, logger)
	require.NoError(t, err, "failed to connect to MongoDB")

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, testTopic)

	cleanup := func() {
		_ = conn.Close(ctx)
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate MongoDB container: %v", err)
		}
	}

	return &testInfra{
		Mongo:        conn,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupAdoptionStack wires the request service over the Mongo repositories.
func setupAdoptionStack(t *testing.T, conn *mongodb.Connection, brokers []string, policy requestDomain.ReacceptPolicy) *adoptionStack {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	requests := repository.NewMongoRequestRepository(conn.Database)
	pets := repository.NewMongoPetRepository(conn.Database)
	require.NoError(t, requests.EnsureIndexes(ctx))
	require.NoError(t, pets.EnsureIndexes(ctx))

	producer := kafka.NewProducer(brokers, logger)
	reconciler := application.NewInventoryReconciler(pets, nil, logger)
	svc := application.NewRequestService(requests, reconciler, producer, policy, testTopic, logger)

	return &adoptionStack{
		Service:         svc,
		Requests:        requests,
		Pets:            pets,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedPet inserts a pet holding the given counters.
func seedPet(t *testing.T, pets *repository.MongoPetRepository, quantity, adoptedCount int, isAdopted bool) primitive.ObjectID {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := petDomain.Reconstruct(
		primitive.NewObjectID(),
		petDomain.Profile{Name: "Milo", Category: "cat"},
		quantity, adoptedCount, isAdopted,
		domain.Address{District: "Dhaka", Division: "Dhaka"},
		petDomain.Poster{UserID: "poster-1", UserEmail: "poster@example.com"},
		now, now,
	)
	require.NoError(t, pets.Save(context.Background(), p), "failed to seed pet")
	return p.ID()
}

// submitRequest creates a pending request through the service.
func submitRequest(t *testing.T, svc *application.RequestService, petID primitive.ObjectID, quantity int) primitive.ObjectID {
	t.Helper()
	dto, err := svc.CreateRequest(context.Background(), application.CreateRequestInput{
		UserID:    "user-1",
		UserEmail: "ana@example.com",
		UserName:  "Ana",
		PetID:     petID.Hex(),
		Address:   domain.Address{District: "Dhaka", Division: "Dhaka"},
		Quantity:  &quantity,
	})
	require.NoError(t, err, "failed to create request")
	id, err := primitive.ObjectIDFromHex(dto.ID)
	require.NoError(t, err)
	return id
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
