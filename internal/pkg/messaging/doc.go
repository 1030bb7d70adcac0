// Package messaging publishes events to a message broker without tying
// business code to a particular one.
//
// Publishers exist for NATS, NSQ, Kafka and Google Pub/Sub; NewFromDriver
// picks one by name and "none" selects a publisher that only logs.
package messaging
