package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maticef/huddle/go/internal/client"
	"github.com/maticef/huddle/go/internal/fights"
	"github.com/maticef/huddle/go/internal/models"
)

// defaultCalibration places the demo venue; it is also what resurrection
// falls back to, since the original calibration dies with the registry.
var defaultCalibration = &models.VenueCalibration{
	P1:    models.CalibrationPoint{GPS: models.Coordinates{Lat: -34.643494, Lng: -58.396511}, Map: models.MapPoint{X: 500, Y: 500}},
	P2:    models.CalibrationPoint{GPS: models.Coordinates{Lat: -34.644494, Lng: -58.396511}, Map: models.MapPoint{X: 500, Y: 900}},
	Scale: 1,
}

func main() {
	server := flag.String("server", "http://localhost:8080", "registry base URL")
	name := flag.String("name", "", "display name (required)")
	code := flag.String("code", "", "group code to join")
	create := flag.Bool("create", false, "create a new group instead of joining")
	lat := flag.Float64("lat", -34.643494, "reported latitude")
	lng := flag.Float64("lng", -58.396511, "reported longitude")
	poll := flag.Duration("poll", client.DefaultPollInterval, "poll interval")
	flag.Parse()

	// The terminal owns stdout; keep logs in a file.
	logFile, err := os.OpenFile("huddle-client.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: -name is required; add -create or -code <CODE>")
		os.Exit(1)
	}
	if !*create && *code == "" {
		fmt.Fprintln(os.Stderr, "either -create or -code <CODE> is required")
		os.Exit(1)
	}

	api := client.NewAPI(*server)

	action := "join"
	var cal *models.VenueCalibration
	if *create {
		action = "create"
		cal = defaultCalibration
	}
	joined, err := api.JoinGroup(context.Background(), client.JoinRequest{
		Name:        *name,
		GroupCode:   *code,
		Action:      action,
		Calibration: cal,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not join group: %v\n", err)
		os.Exit(1)
	}

	votes, err := openVoteCache()
	if err != nil {
		log.Warn().Err(err).Msg("vote cache unavailable; votes will not survive restarts")
	} else {
		defer votes.Close()
	}

	var program atomic.Pointer[tea.Program]
	engine := client.NewEngine(joined.User.ID)
	session := client.NewSession(api, engine, votes, clockwork.NewRealClock(), client.SessionConfig{
		GroupCode:          joined.Group.ID,
		UserID:             joined.User.ID,
		DisplayName:        *name,
		PollInterval:       *poll,
		DefaultCalibration: defaultCalibration,
	}, client.Callbacks{
		OnUpdate: func(v client.View) {
			if p := program.Load(); p != nil {
				p.Send(viewMsg{view: v})
			}
		},
		OnSessionExpired: func() {
			if p := program.Load(); p != nil {
				p.Send(sessionExpiredMsg{})
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session.Start(ctx, client.FixedSource{
		Coord:    models.Coordinates{Lat: *lat, Lng: *lng},
		Interval: 5 * time.Second,
	})
	defer session.Close()

	p := tea.NewProgram(initialModel(session, joined, fetchFightCard(*server)), tea.WithAltScreen())
	program.Store(p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openVoteCache() (*client.VoteCache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return client.OpenVoteCache(filepath.Join(dir, "huddle", "votes.db"))
}

// fetchFightCard pulls the card from the server, falling back to the
// built-in one when the endpoint is unreachable.
func fetchFightCard(server string) fights.Schedule {
	resp, err := http.Get(server + "/fights")
	if err != nil {
		return fights.Default()
	}
	defer resp.Body.Close()

	var card fights.Schedule
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&card) != nil || len(card) == 0 {
		return fights.Default()
	}
	return card
}
