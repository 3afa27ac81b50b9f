// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"
	"net/http"
	"strconv"
	"time"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "diffeo",
		Subsystem: "trellis",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method and status",
	},
	[]string{
		"method",
		"code",
	},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "diffeo",
		Subsystem: "trellis",
		Name:      "request_duration_seconds",
		Help:      "Time taken to serve HTTP requests",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
}

// Metrics is negroni middleware recording every request.
type Metrics struct{}

func (Metrics) ServeHTTP(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(rw, r)
	status := http.StatusOK
	if nrw, ok := rw.(negroni.ResponseWriter); ok && nrw.Status() != 0 {
		status = nrw.Status()
	}
	requestCount.With(prometheus.Labels{
		"method": r.Method,
		"code":   strconv.Itoa(status),
	}).Inc()
	requestDuration.With(prometheus.Labels{"method": r.Method}).Observe(time.Since(start).Seconds())
}
