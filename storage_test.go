package coapmsg

import (
	"net"
	"testing"
	"time"
)

func TestTransferStorage(t *testing.T) {
	storage := NewTransferStorage()

	acc := NewCoAPMessage(CON, POST)
	acc.Sender, _ = net.ResolveUDPAddr("udp", "127.0.0.1:5683")
	key := acc.GetBlockwiseKeyForReceive()

	storage.Set(key, acc)
	if got := storage.Get(key); got != acc {
		t.Error("stored accumulator not returned")
	}
	if storage.ItemCount() != 1 {
		t.Errorf("ItemCount() = %d, want 1", storage.ItemCount())
	}

	storage.Delete(key)
	if storage.Get(key) != nil {
		t.Error("accumulator survived Delete")
	}
}

func TestTransferStorageExpiration(t *testing.T) {
	storage := NewTransferStorageExpiration(20 * time.Millisecond)

	storage.Set("token+addr", NewCoAPMessage(CON, POST))
	time.Sleep(50 * time.Millisecond)

	if storage.Get("token+addr") != nil {
		t.Error("abandoned transfer did not expire")
	}
}

func TestBlockwiseKeys(t *testing.T) {
	msg := NewCoAPMessage(CON, POST)
	msg.SetToken("tok")
	sender, _ := net.ResolveUDPAddr("udp", "10.0.0.1:5683")
	msg.Sender = sender

	if msg.GetBlockwiseKeyForReceive() != sender.String()+"tok" {
		t.Errorf("receive key = %q", msg.GetBlockwiseKeyForReceive())
	}

	dest, _ := net.ResolveUDPAddr("udp", "10.0.0.2:5683")
	if msg.GetBlockwiseKeyForSend(dest) != dest.String()+"tok" {
		t.Errorf("send key = %q", msg.GetBlockwiseKeyForSend(dest))
	}
}
