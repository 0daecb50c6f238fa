package duck

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/myducklabs/myduck/internal/model/duck"
	"github.com/myducklabs/myduck/internal/policy"
	"github.com/myducklabs/myduck/internal/service/provider"
)

type fakeBackend struct {
	calls  int
	last   duck.ChatRequest
	answer string
	err    error
}

func (f *fakeBackend) Chat(_ context.Context, request duck.ChatRequest) (string, error) {
	f.calls++
	f.last = request
	return f.answer, f.err
}

type fakeBridge struct {
	calls  int
	answer string
	err    error
}

func (f *fakeBridge) Ask(_ context.Context, _ provider.AskRequest) (string, error) {
	f.calls++
	return f.answer, f.err
}

func newTestService(backend *fakeBackend, bridge *fakeBridge, backendReady bool) *Service {
	return NewService(policy.NewWithSource(rand.NewSource(7)), backend, bridge, backendReady)
}

func TestAskBackendAnswerWins(t *testing.T) {
	backend := &fakeBackend{answer: "What broke first?"}
	bridge := &fakeBridge{answer: "should not matter"}
	svc := newTestService(backend, bridge, true)

	answer := svc.Ask(context.Background(), Question{
		Provider:  provider.ClaudeCLI,
		UserInput: "my app crashes",
		Language:  policy.English,
	})

	assert.Equal(t, "What broke first?", answer)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, 0, bridge.calls)
}

func TestAskBackendRequestCarriesCliAuth(t *testing.T) {
	backend := &fakeBackend{answer: "What broke first?"}
	svc := newTestService(backend, &fakeBridge{}, true)

	svc.Ask(context.Background(), Question{
		Provider:  provider.CodexCLI,
		UserInput: "it hangs",
		Language:  policy.French,
	})

	assert.Equal(t, "cli", backend.last.Auth.Mode)
	assert.Equal(t, "codex-cli", backend.last.Auth.CliProvider)
	assert.Equal(t, "codex-cli", backend.last.Provider)
	assert.Equal(t, "fr", backend.last.Language)
	assert.Equal(t, "it hangs", backend.last.UserInput)
}

func TestAskBackendFailureDemotesToBridge(t *testing.T) {
	backend := &fakeBackend{err: errors.New("socket gone")}
	bridge := &fakeBridge{answer: "Ignore this part. What changed since then?"}
	svc := newTestService(backend, bridge, true)

	answer := svc.Ask(context.Background(), Question{
		Provider:  provider.ClaudeCLI,
		UserInput: "it used to work",
		Language:  policy.English,
	})

	assert.Equal(t, "What changed since then?", answer)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, 1, bridge.calls)
}

func TestAskEmptyBackendAnswerDemotesToBridge(t *testing.T) {
	backend := &fakeBackend{answer: ""}
	bridge := &fakeBridge{answer: "What changed since then?"}
	svc := newTestService(backend, bridge, true)

	answer := svc.Ask(context.Background(), Question{
		Provider:  provider.ClaudeCLI,
		UserInput: "it used to work",
		Language:  policy.English,
	})

	assert.Equal(t, "What changed since then?", answer)
	assert.Equal(t, 1, bridge.calls)
}

func TestAskBackendSkippedWhenNotReady(t *testing.T) {
	backend := &fakeBackend{answer: "should not matter"}
	bridge := &fakeBridge{answer: "What changed since then?"}
	svc := newTestService(backend, bridge, false)

	answer := svc.Ask(context.Background(), Question{
		Provider:  provider.ClaudeCLI,
		UserInput: "it used to work",
		Language:  policy.English,
	})

	assert.Equal(t, "What changed since then?", answer)
	assert.Equal(t, 0, backend.calls)
	assert.Equal(t, 1, bridge.calls)
}

func TestAskBridgeFailureEndsInLocalQuestion(t *testing.T) {
	backend := &fakeBackend{err: errors.New("socket gone")}
	bridge := &fakeBridge{err: errors.New("claude exited with code 1")}
	svc := newTestService(backend, bridge, true)

	answer := svc.Ask(context.Background(), Question{
		Provider:  provider.ClaudeCLI,
		UserInput: "there is an error somewhere",
		Language:  policy.English,
	})

	assert.Equal(t, "What is the exact error message, and when does it appear?", answer)
}

func TestAskNeverReturnsEmpty(t *testing.T) {
	backend := &fakeBackend{err: errors.New("down")}
	bridge := &fakeBridge{err: errors.New("down")}
	svc := newTestService(backend, bridge, true)

	for _, input := range []string{"", "hmm", "design question", "lent et bizarre"} {
		for _, lang := range []policy.Language{policy.English, policy.French} {
			answer := svc.Ask(context.Background(), Question{UserInput: input, Language: lang})
			assert.NotEmpty(t, answer)
			assert.True(t, strings.HasSuffix(answer, "?"), "input %q lang %q got %q", input, lang, answer)
		}
	}
}
