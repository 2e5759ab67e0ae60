// containers.go
//
// Starts the database and redis containers used by the integration tests and
// by the standalone testcontainers command.
// Expects environment variables to be loaded from .env files.
//

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/mindsync/data"
	"github.com/localnerve/mindsync/internal/config"
	"github.com/localnerve/mindsync/internal/database"
	"github.com/localnerve/mindsync/internal/storage"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainers holds the running containers and their host-mapped addresses
type TestContainers struct {
	Network        *testcontainers.DockerNetwork
	DBContainer    testcontainers.Container
	RedisContainer testcontainers.Container

	DBType    string
	DBHost    string
	DBPort    string
	RedisAddr string
}

// Terminate stops every container that was started
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.RedisContainer != nil {
		if err := tc.RedisContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Redis: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", tc.DBType, err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// Config returns a service configuration pointing at the containers
func (tc *TestContainers) Config() *config.Config {
	cfg := &config.Config{
		Port:              getEnv("PORT", "5000"),
		Location:          time.UTC,
		DBType:            tc.DBType,
		DBHost:            tc.DBHost,
		DBPort:            tc.DBPort,
		DBDatabase:        getEnv("DB_DATABASE", "mindsync"),
		DBUser:            getEnv("DB_USER", "mindsync"),
		DBPassword:        getEnv("DB_PASSWORD", "mindsync"),
		DBConnectionLimit: 5,
		DBLogLevel:        "silent",
		SessionSecret:     config.DefaultSessionSecret,
		SessionStore:      "database",
		SessionTTL:        24 * time.Hour,
	}
	if tc.RedisAddr != "" {
		cfg.SessionStore = "redis"
		cfg.RedisAddr = tc.RedisAddr
	}
	return cfg
}

// CreateAllTestContainers starts the database named by DB_TYPE and a redis
// server on a shared network. With a nil t, failures exit the process.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	dbType := getEnv("DB_TYPE", "mariadb")
	testContainers := &TestContainers{DBType: dbType}

	// Create a network
	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	testContainers.Network = nw
	networkName := nw.Name

	// Create and start the Database container
	dbNetworkName := getEnv("DB_HOST", "db")
	tcpDbPort, err := nat.NewPort("tcp", getEnv("DB_PORT", defaultDBPort(dbType)))
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("DB_IMAGE", defaultDBImage(dbType)),
			ExposedPorts: []string{string(tcpDbPort)},
			Env:          getDBInitEnvMap(dbType),
			WaitingFor:   wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Database")
	}
	testContainers.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDbPort)
	testContainers.DBHost = dbHost
	testContainers.DBPort = dbPort.Port()

	// Initialize the database
	switch dbType {
	case "postgres", "postgresql":
		if err := performPostgresDBInit(testContainers); err != nil {
			testContainers.Terminate(t)
			exitWithError(t, err, "Failed to initialize database")
		}
	case "mysql", "mariadb":
		if err := performMySqlDBInit(testContainers); err != nil {
			testContainers.Terminate(t)
			exitWithError(t, err, "Failed to initialize database")
		}
	}
	logMessage(t, "DB_HOST=%s DB_PORT=%s", testContainers.DBHost, testContainers.DBPort)

	// Create and start the Redis container
	tcpRedisPort, err := nat.NewPort("tcp", getEnv("REDIS_PORT", "6379"))
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create Redis port")
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnv("REDIS_IMAGE", "redis:7-alpine"),
			ExposedPorts: []string{string(tcpRedisPort)},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
			Networks:     []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"redis"},
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Redis")
	}
	testContainers.RedisContainer = redisContainer

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, tcpRedisPort)
	testContainers.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort.Port())
	logMessage(t, "REDIS_ADDR=%s", testContainers.RedisAddr)

	logMessage(t, "MindSync testcontainers started successfully")
	return testContainers, nil
}

func defaultDBPort(dbType string) string {
	if strings.HasPrefix(dbType, "postgres") {
		return "5432"
	}
	return "3306"
}

func defaultDBImage(dbType string) string {
	if strings.HasPrefix(dbType, "postgres") {
		return "postgres:17-alpine"
	}
	return "mariadb:11"
}

func getDBInitEnvMap(dbType string) map[string]string {
	switch dbType {
	case "postgres", "postgresql":
		return map[string]string{
			"POSTGRES_PASSWORD": getEnv("DB_PASSWORD", "mindsync"),
			"POSTGRES_USER":     getEnv("DB_USER", "mindsync"),
			"POSTGRES_DB":       getEnv("DB_DATABASE", "mindsync"),
		}
	case "mariadb", "mysql":
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": getEnv("DB_ROOT_PASSWORD", "rootpass"),
		}
	}
	return nil
}

// performMySqlDBInit creates the service user then runs the embedded bootstrap scripts as root
func performMySqlDBInit(tc *TestContainers) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", getEnv("DB_ROOT_PASSWORD", "rootpass"), tc.DBHost, tc.DBPort))
	if err != nil {
		return fmt.Errorf("failed to connect to %s for setup: %w", tc.DBType, err)
	}
	defer db.Close()

	// Wait for connection to be really ready
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("%s not ready after 30 seconds: %w", tc.DBType, err)
	}

	user := getEnv("DB_USER", "mindsync")
	if _, err := db.Exec(fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", user, getEnv("DB_PASSWORD", "mindsync"))); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user, err)
	}
	if err := executeSQL(db, data.InitdbMariaDBDatabase); err != nil {
		return fmt.Errorf("failed to execute database init sql: %w", err)
	}
	if err := executeSQL(db, data.InitdbMariaDBPrivileges); err != nil {
		return fmt.Errorf("failed to execute privileges init sql: %w", err)
	}
	return nil
}

// performPostgresDBInit waits until the service user can connect. The image
// creates the database and user from its environment.
func performPostgresDBInit(tc *TestContainers) error {
	cfg := tc.Config()
	var err error
	for i := 0; i < 30; i++ {
		var store storage.Storage
		store, _, err = database.Open(cfg)
		if err == nil {
			err = store.Ping(context.Background())
			store.Close()
			if err == nil {
				return nil
			}
		}
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("postgres not ready after 30 seconds: %w", err)
}

func executeSQL(db *sql.DB, sql string) error {
	lines := strings.Split(sql, "\n")

	var ncls []string
	for _, l := range lines {
		ncls = append(ncls, excludeComment(l))
	}

	l := strings.Join(ncls, "\n")
	queries := strings.Split(l, ";")
	queries = queries[:len(queries)-1]

	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// excludeComment strips a trailing -- comment that is not inside a quoted string
func excludeComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case strings.HasPrefix(line[i:], "--"):
			return line[:i]
		}
	}
	return line
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
