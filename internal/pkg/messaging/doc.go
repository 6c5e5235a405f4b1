// Package messaging provides a broker-agnostic publish/consume client with
// NATS and NSQ backends.
package messaging
