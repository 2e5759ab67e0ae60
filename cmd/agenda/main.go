package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/mindsync/internal/client"
	"github.com/localnerve/mindsync/internal/models"
	"github.com/pkg/errors"
)

const usage = `
Print the MindSync agenda: active term, upcoming tasks, the day's study sessions and open goals.

Usage:

agenda [-h] [-f ENV_FILE_PATH] [-url BASE_URL] [-u USERNAME] [-days N] [-date YYYY-MM-DD]

The password is read from MINDSYNC_PASSWORD.

example
  MINDSYNC_PASSWORD=secret agenda -url http://localhost:5000 -u alice -days 14
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// run returns instead of exiting so the deferred logout always happens
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	showHelp := fs.Bool("h", false, "show help")
	envFilename := fs.String("f", "", "path to the .env file")
	baseURL := fs.String("url", "", "service base url (MINDSYNC_URL)")
	username := fs.String("u", "", "username (MINDSYNC_USER)")
	days := fs.Int("days", 7, "upcoming task window in days")
	date := fs.String("date", "", "day to list study sessions for, YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showHelp {
		fmt.Fprint(out, usage+"\n")
		return nil
	}

	if *envFilename != "" {
		if err := godotenv.Load(*envFilename); err != nil {
			return errors.Wrap(err, "failed to load environment variables")
		}
	}
	if *baseURL == "" {
		*baseURL = getEnv("MINDSYNC_URL", "http://localhost:5000")
	}
	if *username == "" {
		*username = os.Getenv("MINDSYNC_USER")
	}
	password := os.Getenv("MINDSYNC_PASSWORD")
	if *username == "" || password == "" {
		return errors.New("a username and MINDSYNC_PASSWORD are required")
	}

	day := time.Now()
	if *date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			return errors.Wrapf(err, "invalid date %q", *date)
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api, err := client.New(*baseURL)
	if err != nil {
		return errors.Wrap(err, "failed to create client")
	}

	user, err := api.Login(ctx, *username, password)
	if err != nil {
		return errors.Wrap(err, "login failed")
	}
	defer func() {
		if err := api.Logout(context.Background()); err != nil {
			log.Printf("Logout failed: %v", err)
		}
	}()

	term, err := api.ActiveTerm(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load active term")
	}
	tasks, err := api.UpcomingTasks(ctx, *days)
	if err != nil {
		return errors.Wrap(err, "failed to load upcoming tasks")
	}
	sessions, err := api.SessionsForDay(ctx, day)
	if err != nil {
		return errors.Wrap(err, "failed to load study sessions")
	}
	goals, err := api.Goals(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load goals")
	}

	printAgenda(out, user, term, tasks, sessions, goals, day, *days)
	return nil
}

func printAgenda(out io.Writer, user *models.User, term *models.Term, tasks []models.Task, sessions []models.StudySession, goals []models.Goal, day time.Time, days int) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Agenda for %s\n", user.FullName)
	if term != nil {
		fmt.Fprintf(w, "Term: %s (%s to %s)\n", term.Name, term.StartDate.Format("Jan 2"), term.EndDate.Format("Jan 2"))
	}

	fmt.Fprintf(w, "\nDue in the next %d days\n", days)
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  nothing due")
	}
	for _, task := range tasks {
		mark := " "
		if task.Status == models.StatusComplete {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s]\t%s\t%s\t%s\t%s\n", mark, task.DueDate.Local().Format("Mon Jan 2 15:04"), task.TaskType, task.Priority, task.Name)
	}

	fmt.Fprintf(w, "\nStudy sessions on %s\n", day.Format("Mon Jan 2"))
	if len(sessions) == 0 {
		fmt.Fprintln(w, "  none scheduled")
	}
	for _, s := range sessions {
		where := ""
		if s.Location != nil {
			where = *s.Location
		}
		fmt.Fprintf(w, "  %s-%s\t%s\t%s\n", s.StartTime.Local().Format("15:04"), s.EndTime.Local().Format("15:04"), s.Title, where)
	}

	open := 0
	for _, g := range goals {
		if !g.Completed {
			open++
		}
	}
	fmt.Fprintf(w, "\nOpen goals (%d of %d)\n", open, len(goals))
	for _, g := range goals {
		if g.Completed {
			continue
		}
		due := ""
		if g.DueDate != nil {
			due = g.DueDate.Local().Format("Jan 2")
		}
		fmt.Fprintf(w, "  %s\t%s\n", g.Title, due)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
