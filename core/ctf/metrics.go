package ctf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var flagSubmissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "flag_submissions_total",
		Help: "Number of flag submissions, partitioned by verdict.",
	},
	[]string{"correct"},
)
