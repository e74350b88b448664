package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/verona-ai/profilesearch/v1/observability"
)

func TestRedisCacheOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	obs := &recordingObserver{}
	var client Client
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() Config { return Config{Host: host, Port: port} },
			func() observability.Observer { return obs },
		),
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	t.Run("miss then hit", func(t *testing.T) {
		_, err := client.Get(ctx, "parse:q1")
		assert.True(t, IsNilError(err))

		require.NoError(t, client.Set(ctx, "parse:q1", `{"education_query":"IIT"}`, time.Minute))

		value, err := client.Get(ctx, "parse:q1")
		require.NoError(t, err)
		assert.Equal(t, `{"education_query":"IIT"}`, value)
	})

	t.Run("ttl expires", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "parse:short", "v", time.Second))
		assert.Eventually(t, func() bool {
			_, err := client.Get(ctx, "parse:short")
			return IsNilError(err)
		}, 5*time.Second, 200*time.Millisecond)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "parse:del", "v", 0))
		n, err := client.Delete(ctx, "parse:del", "parse:absent")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	results := map[string]int{}
	for _, op := range obs.ops() {
		if op.Operation == "get" {
			results[op.Metadata["result"].(string)]++
		}
	}
	assert.Positive(t, results["hit"])
	assert.Positive(t, results["miss"])
	assert.Zero(t, results["error"])
}

func initializeRedis(ctx context.Context, t *testing.T) (string, int, testcontainers.Container) {
	hostPort, err := getFreePort()
	require.NoError(t, err)

	containerInstance, err := createRedisContainer(ctx, hostPort)
	require.NoError(t, err)

	port, err := containerInstance.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port.Port()), 2*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 500*time.Millisecond, "Redis port not ready")

	return host, port.Int(), containerInstance
}

func createRedisContainer(ctx context.Context, hostPort string) (testcontainers.Container, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = nat.PortMap{
				"6379/tcp": []nat.PortBinding{{HostPort: hostPort}},
			}
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	}

	var containerInstance testcontainers.Container
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		containerInstance, lastErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if lastErr == nil {
			return containerInstance, nil
		}
		if strings.Contains(lastErr.Error(), "docker.sock") {
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}
		break
	}
	return nil, fmt.Errorf("failed to start Redis container after 3 attempts: %w", lastErr)
}

func getFreePort() (string, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port), nil
}
