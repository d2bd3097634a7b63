package suts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"

	"github.com/signalnine/promptdome/internal/sut"
)

// Docker evaluates prompts by running a container per call: the prompt is
// exposed as PROMPT in the environment and stdout is the completion. Meant
// for local model runners that ship as images rather than HTTP endpoints.
type Docker struct {
	uid     string
	cli     *client.Client
	image   string
	command []string
	timeout time.Duration
}

type dockerRequest struct {
	Env []string
}

type dockerResponse struct {
	ExitCode int
	Output   string
}

func NewDocker(uid, image string, command []string, timeout time.Duration) (*Docker, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &Docker{uid: uid, cli: cli, image: image, command: command, timeout: timeout}, nil
}

func (d *Docker) UID() string { return d.uid }

func (d *Docker) Translate(p sut.Prompt) (sut.Request, error) {
	return dockerRequest{Env: []string{"PROMPT=" + p.Text}}, nil
}

func (d *Docker) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	r, ok := req.(dockerRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}

	// Tty keeps the log stream unmultiplexed so stdout reads back raw.
	createResp, err := d.cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config: &container.Config{
			Image:  d.image,
			Cmd:    d.command,
			Env:    r.Env,
			Tty:    true,
			Labels: map[string]string{"promptdome": "true"},
		},
		HostConfig: &container.HostConfig{},
	})
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}
	containerID := createResp.ID
	defer func() {
		d.cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true})
	}()

	if _, err := d.cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	waitResult := d.cli.ContainerWait(timeoutCtx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})
	for {
		select {
		case err := <-waitResult.Error:
			if err != nil {
				d.cli.ContainerKill(context.Background(), containerID, client.ContainerKillOptions{Signal: "SIGKILL"})
				return nil, fmt.Errorf("waiting for container: %w", err)
			}
			// nil means nothing on this channel; keep waiting for the result
		case status := <-waitResult.Result:
			output := d.readLogs(containerID)
			if status.StatusCode != 0 {
				return nil, fmt.Errorf("container exited with code %d: %s", status.StatusCode, strings.TrimSpace(output))
			}
			return dockerResponse{ExitCode: int(status.StatusCode), Output: output}, nil
		}
	}
}

func (d *Docker) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	r, ok := resp.(dockerResponse)
	if !ok {
		return sut.Completion{}, fmt.Errorf("unexpected response type %T", resp)
	}
	return sut.Completion{Text: strings.TrimSpace(r.Output)}, nil
}

func (d *Docker) readLogs(containerID string) string {
	logReader, err := d.cli.ContainerLogs(context.Background(), containerID, client.ContainerLogsOptions{ShowStdout: true})
	if err != nil {
		return ""
	}
	defer logReader.Close()
	data, _ := io.ReadAll(logReader)
	return string(data)
}
