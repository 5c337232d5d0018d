package tui

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

func TestSSHServerShutdownClosesStore(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "host_key")
	cfg.Game.Scores.DB = filepath.Join(dir, "scores.db")
	cfg.Game.Saves.Dir = filepath.Join(dir, "saves")

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if srv.store == nil {
		t.Fatal("server should open the score store")
	}

	if err := srv.Shutdown(); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
	_, err = srv.store.SaveResult(storage.Result{GameID: "late", Difficulty: "beginner", Rows: 9, Cols: 9, Mines: 10})
	if err == nil {
		t.Error("store should be closed once the server has stopped")
	}
}
