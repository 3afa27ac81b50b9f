// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package trellisd runs a Linked Data Platform server over a
// configurable resource backend.
package main

import (
	"context"
	"github.com/diffeo/go-trellis/agent"
	"github.com/diffeo/go-trellis/backend"
	"github.com/diffeo/go-trellis/binary"
	"github.com/diffeo/go-trellis/cache"
	"github.com/diffeo/go-trellis/constraint"
	"github.com/diffeo/go-trellis/ldp"
	"github.com/diffeo/go-trellis/ldpserver"
	"github.com/diffeo/go-trellis/memory"
	"github.com/diffeo/go-trellis/rdfio"
	"github.com/diffeo/go-trellis/webac"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/urfave/negroni"
	"net/http"
	"os"
)

func main() {
	backend := backend.Backend{Implementation: "memory"}
	app := cli.NewApp()
	app.Name = "trellisd"
	app.Usage = "serve Linked Data Platform resources over HTTP"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "http",
			Value: ":8080",
			Usage: "[ip]:port for the LDP interface",
		},
		cli.StringFlag{
			Name:  "metrics",
			Value: ":9080",
			Usage: "[ip]:port for Prometheus metrics, empty to disable",
		},
		cli.GenericFlag{
			Name:  "backend",
			Value: &backend,
			Usage: "impl[:address] of the resource backend",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "global configuration YAML file",
		},
		cli.BoolFlag{
			Name:  "log-requests",
			Usage: "log all requests",
		},
	}
	app.Action = func(c *cli.Context) error {
		config := defaultConfig()
		if filename := c.String("config"); filename != "" {
			raw, err := loadConfigYaml(filename)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"err":  err,
					"file": filename,
				}).Fatal("Could not load YAML configuration")
			}
			if err = decodeConfig(raw, &config); err != nil {
				logrus.WithFields(logrus.Fields{
					"err":  err,
					"file": filename,
				}).Fatal("Invalid configuration")
			}
		}
		level, err := config.logLevel()
		if err != nil {
			logrus.WithField("err", err).Fatal("Invalid log level")
		}
		logrus.SetLevel(level)

		server, err := newServer(&backend, config)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err":     err,
				"backend": backend.String(),
			}).Fatal("Could not create server")
		}
		if err = server.Bootstrap(context.Background()); err != nil {
			logrus.WithField("err", err).Fatal("Could not create partition roots")
		}

		middleware := []negroni.Handler{Metrics{}}
		if c.Bool("log-requests") {
			logrus.SetLevel(logrus.DebugLevel)
			middleware = append(middleware, ldpserver.RequestLogger{})
		}

		if addr := c.String("metrics"); addr != "" {
			go serveMetrics(addr)
		}
		logrus.WithFields(logrus.Fields{
			"addr":       c.String("http"),
			"partitions": len(config.Partitions),
		}).Info("Serving LDP")
		return http.ListenAndServe(c.String("http"), server.Handler(middleware...))
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithField("err", err).Fatal("Server failed")
	}
}

// newServer assembles the LDP server and its collaborators.
func newServer(b *backend.Backend, config Config) (*ldpserver.Server, error) {
	resources, err := b.Resources()
	if err != nil {
		return nil, err
	}
	switch {
	case config.CacheSize == 0:
		resources = cache.New(resources)
	case config.CacheSize > 0:
		resources = cache.NewWithSize(resources, config.CacheSize)
	}

	var binaries ldp.BinaryService
	if config.BinaryDir != "" {
		if binaries, err = binary.NewFileService(config.BinaryDir); err != nil {
			return nil, err
		}
	} else {
		binaries = memory.NewBinaryService()
	}

	maxBodySize, err := config.maxBodySize()
	if err != nil {
		return nil, err
	}

	server := &ldpserver.Server{
		Resources:   resources,
		IO:          rdfio.New(),
		Binaries:    binaries,
		Constraints: constraint.New(),
		Agents:      agent.New(config.Admins...),
		Partitions:  config.Partitions,
		Challenges:  config.Challenges,
		Users:       config.Users,
		MaxBodySize: maxBodySize,
		SpoolDir:    config.SpoolDir,
	}
	if config.webac() {
		server.Access = webac.New(resources)
	}
	return server, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithFields(logrus.Fields{
			"err":  err,
			"addr": addr,
		}).Error("Metrics server failed")
	}
}
