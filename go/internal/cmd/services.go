package main

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maticef/huddle/go/internal/fights"
	"github.com/maticef/huddle/go/internal/httpapi"
	"github.com/maticef/huddle/go/internal/metrics"
	"github.com/maticef/huddle/go/internal/registry"
)

type Services struct {
	Registry *registry.Registry
	API      *httpapi.Service
	Fights   fights.Schedule
}

func setupServices(config *Config) *Services {
	reg := registry.New(registry.Config{
		LivenessWindow: config.livenessWindow(),
		MessageCap:     config.Registry.MessageCap,
		CodeLength:     config.Registry.CodeLength,
		MapImage:       config.Registry.MapImage,
	}, clockwork.NewRealClock())

	m := metrics.New(prometheus.DefaultRegisterer)

	return &Services{
		Registry: reg,
		API:      httpapi.NewService(reg, m),
		Fights:   config.Fights,
	}
}
