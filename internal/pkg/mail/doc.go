// Package mail abstracts email delivery behind a small provider-agnostic API.
package mail
