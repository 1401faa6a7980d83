package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/justmike2000/itemwars/client"
	"github.com/justmike2000/itemwars/server"
)

func main() {
	var (
		host       string
		list       string
		playerName string
		gameID     string
		serverAddr string
		statusAddr string
	)
	flag.StringVar(&host, "host", "", "run as server on hostname:port")
	flag.StringVar(&list, "list", "", "list all games on hostname:port and exit")
	flag.StringVar(&playerName, "player", "Player", "player name, max 8 alphanumeric characters")
	flag.StringVar(&gameID, "game", "", "game id to join")
	flag.StringVar(&serverAddr, "server", "localhost:7878", "server to connect to")
	flag.StringVar(&statusAddr, "status", "", "HTTP status listen address (server mode)")
	flag.Parse()

	switch {
	case host != "":
		runServer(host, statusAddr)
	case list != "":
		runList(list)
	default:
		runClient(client.Config{Server: serverAddr, Player: playerName, GameID: gameID})
	}
}

func runServer(addr, statusAddr string) {
	cfg, err := server.ConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.Addr = addr
	if statusAddr != "" {
		cfg.StatusAddr = statusAddr
	}

	srv := server.NewGameServer(cfg)
	if err := srv.Listen(); err != nil {
		log.Fatalf("listen: %v", err)
	}
	go srv.Run()
	defer srv.Stop()

	if cfg.StatusAddr != "" {
		go func() {
			log.Infof("status listening on %s", cfg.StatusAddr)
			if err := http.ListenAndServe(cfg.StatusAddr, routes(srv)); err != nil {
				log.Fatalf("status listen: %v", err)
			}
		}()
	}

	fmt.Printf("Started Item Wars Server on %s\n", srv.Addr())
	console(srv.Addr().String())
}

func runList(addr string) {
	games, err := client.ListGames(addr)
	if err != nil {
		log.Fatalf("list games: %v", err)
	}
	fmt.Println(games)
}

func runClient(cfg client.Config) {
	engine, err := client.Join(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	engine.Start()
	defer engine.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Headless main loop: rendering and input belong to the caller, the
	// engine just keeps both players' views in sync.
	ticker := time.NewTicker(client.StepInterval)
	defer ticker.Stop()
	state := engine.State()
	for {
		select {
		case <-quit:
			log.Info("shutting down")
			return
		case now := <-ticker.C:
			engine.Step(now)
			if s := engine.State(); s != state {
				state = s
				log.Infof("client state %s, player at (%.1f, %.1f)", state, engine.Player.Body.X, engine.Player.Body.Y)
			}
		}
	}
}
