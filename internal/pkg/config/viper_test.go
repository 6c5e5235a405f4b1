package config

import (
	"testing"
	"time"
)

func TestNewViperFromBytes(t *testing.T) {
	yaml := []byte(`
server:
  port: 8080
  read_timeout: 15
auth:
  token_ttl: 30
  secret: c2VjcmV0
otp:
  channels: email,sms,chat
  senders: email:smtp,sms:gateway
maintenance: false
`)

	cfg, err := NewViperFromBytes("yaml", yaml)
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetUint16("server.port"); got != 8080 {
		t.Errorf("GetUint16(server.port) = %d, want 8080", got)
	}

	if got := cfg.GetSecond("server.read_timeout"); got != 15*time.Second {
		t.Errorf("GetSecond(server.read_timeout) = %v, want 15s", got)
	}

	if got := cfg.GetMinute("auth.token_ttl"); got != 30*time.Minute {
		t.Errorf("GetMinute(auth.token_ttl) = %v, want 30m", got)
	}

	if got := string(cfg.GetBinary("auth.secret")); got != "secret" {
		t.Errorf("GetBinary(auth.secret) = %q, want %q", got, "secret")
	}

	if got := cfg.GetArray("otp.channels"); len(got) != 3 || got[0] != "email" {
		t.Errorf("GetArray(otp.channels) = %v, want [email sms chat]", got)
	}

	senders := cfg.GetMap("otp.senders")
	if senders["email"] != "smtp" || senders["sms"] != "gateway" {
		t.Errorf("GetMap(otp.senders) = %v", senders)
	}

	if cfg.GetBool("maintenance") {
		t.Error("GetBool(maintenance) = true, want false")
	}
}

func TestNewViperFromBytes_EmptyType(t *testing.T) {
	if _, err := NewViperFromBytes("", []byte("a: 1")); err == nil {
		t.Fatal("NewViperFromBytes() expected error for empty config type")
	}
}
