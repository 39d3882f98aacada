// Package main is a minimal host demonstrating the event hub public API:
// it registers a sample extension that publishes shared state and answers
// request events, dispatches a request, and prints the response.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dshills/eventhub/config"
	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/event/value"
	"github.com/dshills/eventhub/hub"
	"github.com/dshills/eventhub/logging"
)

const (
	demoType           = "com.example.eventType.greeter"
	sourceRequest      = "com.example.eventSource.request"
	sourceResponse     = "com.example.eventSource.response"
	greeterName        = "com.example.module.greeter"
	greeterStateKey    = "greetings"
	greeterFriendly    = "Greeter"
	greeterVersion     = "0.1.0"
	responseWaitBudget = 2 * time.Second
)

// greeter is a sample extension: it answers greet requests and counts them
// in its shared state.
type greeter struct {
	rt    *hub.Runtime
	count int
}

func (g *greeter) Name() string         { return greeterName }
func (g *greeter) FriendlyName() string { return greeterFriendly }
func (g *greeter) Version() string      { return greeterVersion }
func (g *greeter) OnUnregistered()      {}

func (g *greeter) OnRegistered() {
	g.rt.RegisterListener(demoType, sourceRequest, g.onRequest)
	g.rt.SetSharedState(hub.StandardState, map[string]value.Value{
		greeterStateKey: value.Int64(0),
	}, nil)
}

func (g *greeter) onRequest(e event.Event) {
	g.count++
	g.rt.SetSharedState(hub.StandardState, map[string]value.Value{
		greeterStateKey: value.Int64(int64(g.count)),
	}, nil)

	who := "world"
	if v, ok := e.Data()["who"]; ok {
		if s, ok := v.StringVal(); ok {
			who = s
		}
	}
	g.rt.Dispatch(event.New("greet response", demoType, sourceResponse).
		WithData(map[string]value.Value{"greeting": value.String("hello, " + who)}).
		InResponseTo(e))
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	loaders := []config.Loader{config.NewEnvLoader()}
	if *configPath != "" {
		loaders = append([]config.Loader{config.NewTOMLLoader(*configPath)}, loaders...)
	}
	opts, err := config.Load(loaders...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	h := hub.New(
		hub.WithLogger(logging.NewConsole(opts.LogLevel)),
		hub.WithConfig(opts),
	)
	defer h.Shutdown()

	registered := make(chan error, 1)
	h.RegisterExtension(func(rt *hub.Runtime) hub.Extension {
		return &greeter{rt: rt}
	}, func(err error) { registered <- err })
	h.Start()

	if err := <-registered; err != nil {
		fmt.Fprintf(os.Stderr, "Error: registering greeter: %v\n", err)
		return 1
	}

	request := event.New("greet request", demoType, sourceRequest).
		WithData(map[string]value.Value{"who": value.String("hub")})

	response := make(chan event.Event, 1)
	failed := make(chan error, 1)
	h.RegisterResponseListener(request, responseWaitBudget, hub.ResponseFuncs{
		OnCall: func(e event.Event) { response <- e },
		OnFail: func(err error) { failed <- err },
	})
	h.Dispatch(request)

	select {
	case e := <-response:
		if v, ok := e.Data()["greeting"]; ok {
			if s, ok := v.StringVal(); ok {
				fmt.Println(s)
			}
		}
	case err := <-failed:
		fmt.Fprintf(os.Stderr, "Error: no response: %v\n", err)
		return 1
	}

	if data := h.GetSharedState(hub.StandardState, greeterName, nil, nil); data != nil {
		if n, ok := data[greeterStateKey].Int64Val(); ok {
			fmt.Printf("greetings served: %d\n", n)
		}
	}
	return 0
}
