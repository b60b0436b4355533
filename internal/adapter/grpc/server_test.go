package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func dialHealth(t *testing.T, server *grpc.Server) grpc_health_v1.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealthReporter(t *testing.T) {
	server, hs := NewHealthServer(logger.NewNop())
	client := dialHealth(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)

	var redisErr error
	reporter := NewHealthReporter(hs, "bookreview-service", map[string]Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return redisErr },
	}, time.Hour, logger.NewNop())

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, reporter.Probe(ctx))
	resp, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: "bookreview-service"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	redisErr = errors.New("connection refused")
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, reporter.Probe(ctx))
	resp, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}
