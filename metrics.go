package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "storefront",
	Subsystem: "auth",
	Name:      "login_attempts_total",
	Help:      "Login attempts by outcome.",
}, []string{"result"})

var registrations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "storefront",
	Subsystem: "auth",
	Name:      "registrations_total",
	Help:      "Successful account registrations.",
})

var tokenRefreshes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "storefront",
	Subsystem: "auth",
	Name:      "token_refreshes_total",
	Help:      "Access tokens minted through the refresh exchange.",
})
