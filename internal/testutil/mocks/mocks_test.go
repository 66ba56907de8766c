package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

func TestCommandRunner_AddResult(t *testing.T) {
	runner := NewCommandRunner()
	runner.AddResult("brew", []string{"--version"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "Homebrew 4.2.0",
	})

	result, err := runner.Run(context.Background(), "brew", "--version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "Homebrew 4.2.0" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "Homebrew 4.2.0")
	}
}

func TestCommandRunner_NotRegistered(t *testing.T) {
	runner := NewCommandRunner()

	_, err := runner.Run(context.Background(), "unknown", "command")
	if err == nil {
		t.Error("Run() should return error for unregistered command")
	}
}

func TestCommandRunner_AddError(t *testing.T) {
	runner := NewCommandRunner()
	wantErr := errors.New("spawn failed")
	runner.AddError("brew", []string{"update"}, wantErr)

	_, err := runner.Run(context.Background(), "brew", "update")
	if !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
}

func TestCommandRunner_QueueResults(t *testing.T) {
	runner := NewCommandRunner()
	runner.QueueResults("docker", []string{"info"},
		ports.CommandResult{ExitCode: 1},
		ports.CommandResult{ExitCode: 1},
		ports.CommandResult{ExitCode: 0},
	)

	for i, wantExit := range []int{1, 1, 0} {
		result, err := runner.Run(context.Background(), "docker", "info")
		if err != nil {
			t.Fatalf("Run() #%d error = %v", i, err)
		}
		if result.ExitCode != wantExit {
			t.Errorf("Run() #%d exit = %d, want %d", i, result.ExitCode, wantExit)
		}
	}
}

func TestCommandRunner_Fallback(t *testing.T) {
	runner := NewCommandRunner()
	runner.SetFallback(ports.CommandResult{ExitCode: 0})

	result, err := runner.Run(context.Background(), "anything", "at", "all")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Success() {
		t.Error("fallback result should succeed")
	}
}

func TestCommandRunner_CallRecording(t *testing.T) {
	runner := NewCommandRunner()
	runner.SetFallback(ports.CommandResult{ExitCode: 0})

	_, _ = runner.Run(context.Background(), "brew", "install", "git")
	_, _ = runner.Run(context.Background(), "brew", "install", "git")
	_, _ = runner.Run(context.Background(), "brew", "install", "curl")

	if got := runner.CallCount("brew", "install", "git"); got != 2 {
		t.Errorf("CallCount() = %d, want 2", got)
	}
	if got := len(runner.Calls()); got != 3 {
		t.Errorf("Calls() len = %d, want 3", got)
	}
}

func TestCommandRunner_LookPath(t *testing.T) {
	runner := NewCommandRunner()
	runner.PutOnPath("git", "/opt/homebrew/bin/git")

	path, ok := runner.LookPath("git")
	if !ok || path != "/opt/homebrew/bin/git" {
		t.Errorf("LookPath(git) = %q, %v", path, ok)
	}
	if _, ok := runner.LookPath("missing"); ok {
		t.Error("LookPath(missing) should fail")
	}
}

func TestFileSystem_Files(t *testing.T) {
	fs := NewFileSystem()
	fs.AddFile("/home/.zshrc", "export EDITOR=nvim")

	data, err := fs.ReadFile("/home/.zshrc")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "export EDITOR=nvim" {
		t.Errorf("ReadFile() = %q", data)
	}

	if _, err := fs.ReadFile("/missing"); err == nil {
		t.Error("ReadFile() should fail for missing file")
	}
}

func TestFileSystem_DirsAndSymlinks(t *testing.T) {
	fs := NewFileSystem()
	fs.AddDir("/home/.oh-my-zsh")
	fs.AddSymlink("/home/.gitconfig", "/home/dotfiles/gitconfig")

	if !fs.Exists("/home/.oh-my-zsh") || !fs.IsDir("/home/.oh-my-zsh") {
		t.Error("dir should exist and be a dir")
	}

	isLink, target := fs.IsSymlink("/home/.gitconfig")
	if !isLink || target != "/home/dotfiles/gitconfig" {
		t.Errorf("IsSymlink() = %v, %q", isLink, target)
	}

	_ = fs.Remove("/home/.oh-my-zsh")
	if fs.Exists("/home/.oh-my-zsh") {
		t.Error("removed dir should not exist")
	}
}
