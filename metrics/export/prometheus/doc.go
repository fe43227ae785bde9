// Package prometheus exposes session counters to Prometheus, either as a
// text exposition handler or as a Collector registered with a registry.
package prometheus
