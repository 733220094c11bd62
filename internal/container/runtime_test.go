// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImage = "pandoc/core:3.5"

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, s Streams) error

	gotArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, s Streams) error {
	m.gotArgs = args
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, s)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect " + testImage: true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds:    map[string]bool{},
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists " + testImage: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists(testImage)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testImage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun_PipesStreamsAndArgs(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(name string, args []string, s Streams) error {
			if name != "docker" {
				return errors.New("expected docker binary")
			}
			data, _ := io.ReadAll(s.Stdin)
			_, _ = s.Stdout.Write([]byte("<p>" + string(data) + "</p>"))
			_, _ = s.Stderr.Write([]byte("[WARNING] unsupported style\n"))
			return nil
		},
	}
	rt := newDockerRuntime(exec)

	var out, errOut bytes.Buffer
	err := rt.Run(context.Background(), testImage, []string{"-f", "docx", "-t", "html"}, Streams{
		Stdin:  strings.NewReader("docx bytes"),
		Stdout: &out,
		Stderr: &errOut,
	})
	require.NoError(t, err)

	assert.Equal(t, "<p>docx bytes</p>", out.String())
	assert.Equal(t, "[WARNING] unsupported style\n", errOut.String())
	assert.Equal(t, []string{"run", "--rm", "-i", testImage, "-f", "docx", "-t", "html"}, exec.gotArgs)
}

func TestRun_FailureIsWrapped(t *testing.T) {
	cause := errors.New("container exited with code 1")
	rt := newPodmanRuntime(&mockExecutor{
		runPipedFunc: func(string, []string, Streams) error { return cause },
	})

	err := rt.Run(context.Background(), testImage, nil, Streams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "podman")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rt := newDockerRuntime(&mockExecutor{})
	err := rt.Run(ctx, testImage, nil, Streams{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	assert.Equal(t, "docker", newDockerRuntime(exec).Name())
	assert.Equal(t, "podman", newPodmanRuntime(exec).Name())
}
