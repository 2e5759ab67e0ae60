package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/mindsync/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the mindsync database and redis testcontainers with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

Recognized variables: DB_TYPE, DB_IMAGE, DB_HOST, DB_PORT, DB_DATABASE,
DB_USER, DB_PASSWORD, DB_ROOT_PASSWORD, REDIS_IMAGE, REDIS_PORT

example
  testcontainers -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	started := make(chan *testutil.TestContainers, 1)
	go func() {
		testContainers, err := testutil.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		started <- testContainers
	}()

	var testContainers *testutil.TestContainers
	select {
	case testContainers = <-started:
		log.Printf("Containers running, press Ctrl+C to terminate")
		sig := <-sigs
		log.Printf("Received signal: %v, terminating test containers...\n", sig)
	case sig := <-sigs:
		log.Printf("Received signal: %v during startup\n", sig)
		// a partially started set is cleaned up by the reaper
	}
	if testContainers != nil {
		testContainers.Terminate(nil)
	}
}
