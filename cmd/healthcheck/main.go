// main.go
//
// MindSync student productivity service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of mindsync.
// mindsync is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mindsync is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mindsync.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/mindsync/internal/client"
	"github.com/localnerve/mindsync/internal/utils"
	"github.com/pkg/errors"
)

var errUnhealthy = errors.New("service is unhealthy")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Printf("Health check failed: %v", err)
		os.Exit(1)
	}
}

// run asks a running server for GET /api/health and prints the report
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	envFilename := fs.String("f", "", "path to the .env file")
	baseURL := fs.String("url", "", "service base url (MINDSYNC_URL, default http://localhost:$PORT)")
	timeout := fs.Duration("timeout", 5*time.Second, "overall deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *envFilename != "" {
		if err := godotenv.Load(*envFilename); err != nil {
			return errors.Wrap(err, "load environment")
		}
	}
	if *baseURL == "" {
		*baseURL = getEnv("MINDSYNC_URL", "http://localhost:"+getEnv("PORT", "5000"))
	}

	if err := utils.PingService(*baseURL, *timeout); err != nil {
		return errors.Wrap(err, "server is not listening")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api, err := client.New(*baseURL)
	if err != nil {
		return err
	}
	report, err := api.Health(ctx)
	if report == nil {
		return err
	}

	output, marshalErr := json.MarshalIndent(report, "", "  ")
	if marshalErr != nil {
		return errors.Wrap(marshalErr, "encode report")
	}
	fmt.Fprintln(out, string(output))

	if !report.Healthy() {
		return errors.Wrap(errUnhealthy, report.ErrorMessage)
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
