package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consegne/log"
	"consegne/model"
	"consegne/notify"
	"consegne/poller"
	"consegne/rest"
	"consegne/util"

	"github.com/joho/godotenv"
)

// termNotifier renders notifications on the terminal; a real client would
// hand them to the OS notification center.
type termNotifier struct{}

func (termNotifier) Banner(text string, dismissAfter time.Duration) {
	log.Info.Println("[banner]", text)
}

func (termNotifier) Native(title, body, tag string) {
	log.Info.Println("[notify]", title, "-", body)
}

func main() {
	_ = godotenv.Load()

	server := flag.String("server", util.GetEnv("SERVER_URL", "http://localhost:8080"), "coordination server base URL")
	mail := flag.String("mail", util.GetEnv("AGENT_MAIL", ""), "login mail")
	password := flag.String("password", util.GetEnv("AGENT_PASSWORD", ""), "login password")
	interval := flag.Int("interval", util.GetEnvAsInt("POLL_INTERVAL_SEC", 3), "poll interval in seconds")
	native := flag.Bool("native", true, "raise native notifications")
	flag.Parse()

	if util.IsBlank(*mail) || util.IsBlank(*password) {
		log.Fatal("mail and password are required")
	}

	client := rest.NewClient(*server)
	user, err := client.Login(*mail, *password)
	if err != nil {
		log.Fatal(err)
	}
	log.Info.Println("logged in as", user.Name, "("+user.Role+")")

	//drivers only care about shipments assigned to them
	relevant := func(model.Shipment) bool { return true }
	if user.Role == model.RoleDriver {
		relevant = func(s model.Shipment) bool {
			return s.Driver != nil && s.Driver.Id == user.Id
		}
	}

	bus := poller.NewBus(client, user.Ref(), time.Duration(*interval)*time.Second, relevant)
	fanout := notify.NewFanout(bus, user.Ref(), termNotifier{}, client, *native)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = fanout.Run(ctx)
	bus.Shutdown()
	switch {
	case err == nil || errors.Is(err, context.Canceled):
		log.Info.Println("agent stopped")
	case errors.Is(err, rest.ErrUnauthorized):
		log.Fatal("session expired, please log in again")
	default:
		log.Fatal(err)
	}
}
