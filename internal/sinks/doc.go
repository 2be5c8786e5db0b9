// Package sinks connects the engine to the message bus and the telemetry store.
//
// MQTTSink publishes every post-update snapshot, retained, on
// {prefix}/state/{kind}/{id}. UpdateListener accepts patches published on
// {prefix}/update/{kind}/{id} and feeds them to the engine. InfluxSink writes
// the numeric and boolean fields of each update's diff as a time series point.
package sinks
