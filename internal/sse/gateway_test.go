package sse

import (
	"strings"
	"testing"
	"time"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

func testPlayer() *model.Player {
	return &model.Player{
		ID:       "p_test",
		Username: "satoshi",
		Balance:  100,
	}
}

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestGateway_PublishSnapshot(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("p_test")
	defer manager.RemoveHub("p_test")
	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	gateway.PublishSnapshot("p_test", testPlayer(), 7)

	msg := receive(t, client)
	if !strings.HasPrefix(msg, "event: snapshot\n") {
		t.Errorf("message %q is not a snapshot event", msg)
	}
	if !strings.Contains(msg, `"tick":7`) {
		t.Errorf("message %q missing tick", msg)
	}
	if !strings.Contains(msg, `"username":"satoshi"`) {
		t.Errorf("message %q missing player", msg)
	}
}

func TestGateway_PublishBanned(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("p_test")
	defer manager.RemoveHub("p_test")
	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	gateway.PublishBanned("p_test", "autoclicker", model.BanPermanent)

	msg := receive(t, client)
	if !strings.HasPrefix(msg, "event: banned\n") {
		t.Errorf("message %q is not a banned event", msg)
	}
	if !strings.Contains(msg, `"reason":"autoclicker"`) {
		t.Errorf("message %q missing reason", msg)
	}
	if !strings.Contains(msg, `"banned_until":-1`) {
		t.Errorf("message %q missing expiry", msg)
	}
}

func TestGateway_PublishConfig(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("p_test")
	defer manager.RemoveHub("p_test")
	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	cfg := model.DefaultGlobalConfig()
	cfg.Version = 42
	gateway.PublishConfig("p_test", &cfg)

	msg := receive(t, client)
	if !strings.HasPrefix(msg, "event: config\n") {
		t.Errorf("message %q is not a config event", msg)
	}
	if !strings.Contains(msg, `"version":42`) {
		t.Errorf("message %q missing config version", msg)
	}
}

func TestGateway_PublishWithoutHubIsDropped(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	// No hub exists for the player; publishing must be a silent no-op
	gateway.PublishSnapshot("p_nobody", testPlayer(), 1)
	gateway.PublishBanned("p_nobody", "x", 0)
}

func TestGateway_AudioControllerBroadcasts(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("p_test")
	defer manager.RemoveHub("p_test")
	client := NewClient(hub)
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	controller := gateway.AudioController("p_test")
	if err := controller.SetSource("https://cdn.example.com/lofi.mp3"); err != nil {
		t.Fatalf("SetSource returned error: %v", err)
	}

	msg := receive(t, client)
	if !strings.HasPrefix(msg, "event: audio\n") {
		t.Errorf("message %q is not an audio event", msg)
	}
	if !strings.Contains(msg, `"url":"https://cdn.example.com/lofi.mp3"`) {
		t.Errorf("message %q missing url", msg)
	}
}

func TestGateway_AudioReplayRemembersLastDirective(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	// Nothing issued yet
	if replay := gateway.AudioReplay("p_test"); replay != nil {
		t.Errorf("AudioReplay before any directive = %q, want nil", replay)
	}

	// Directives issued with no hub attached must still be remembered
	controller := gateway.AudioController("p_test")
	_ = controller.SetSource("https://cdn.example.com/lofi.mp3")
	controller.SetVolume(0.7)
	controller.SetShouldPlay(true)

	replay := string(gateway.AudioReplay("p_test"))
	if !strings.HasPrefix(replay, "event: audio\n") {
		t.Errorf("replay %q is not an audio event", replay)
	}
	for _, want := range []string{
		`"url":"https://cdn.example.com/lofi.mp3"`,
		`"volume":0.7`,
		`"playing":true`,
	} {
		if !strings.Contains(replay, want) {
			t.Errorf("replay %q missing %s", replay, want)
		}
	}
}

func TestGateway_DropPlayer(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	gateway := NewGateway(manager, testutil.NopLogger())

	manager.GetOrCreateHub("p_test")
	controller := gateway.AudioController("p_test")
	_ = controller.SetSource("https://cdn.example.com/lofi.mp3")

	gateway.DropPlayer("p_test")

	if manager.GetHub("p_test") != nil {
		t.Error("hub still exists after DropPlayer")
	}
	if replay := gateway.AudioReplay("p_test"); replay != nil {
		t.Errorf("AudioReplay after DropPlayer = %q, want nil", replay)
	}
}

func TestGateway_MessageFormatting(t *testing.T) {
	gateway := NewGateway(NewHubManager(testutil.NopLogger()), testutil.NopLogger())

	snapshot := string(gateway.SnapshotMessage(testPlayer(), 3))
	if !strings.HasPrefix(snapshot, "event: snapshot\ndata: ") {
		t.Errorf("SnapshotMessage = %q, want snapshot event", snapshot)
	}
	if !strings.HasSuffix(snapshot, "\n\n") {
		t.Errorf("SnapshotMessage %q is not terminated", snapshot)
	}

	cfg := model.DefaultGlobalConfig()
	config := string(gateway.ConfigMessage(&cfg))
	if !strings.HasPrefix(config, "event: config\ndata: ") {
		t.Errorf("ConfigMessage = %q, want config event", config)
	}

	banned := string(gateway.BannedMessage("tos violation", 12345))
	if !strings.HasPrefix(banned, "event: banned\ndata: ") {
		t.Errorf("BannedMessage = %q, want banned event", banned)
	}
	if !strings.Contains(banned, `"banned_until":12345`) {
		t.Errorf("BannedMessage %q missing expiry", banned)
	}
}
