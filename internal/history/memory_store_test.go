package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-support-chat-be/pkg/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndFetch(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "s1",
		assistant.Turn{Role: assistant.RoleUser, Content: "pregunta 1"},
		assistant.Turn{Role: assistant.RoleAssistant, Content: "respuesta 1"},
	))
	require.NoError(t, store.Append(ctx, "s1",
		assistant.Turn{Role: assistant.RoleUser, Content: "pregunta 2"},
		assistant.Turn{Role: assistant.RoleAssistant, Content: "respuesta 2"},
	))

	turns, err := store.Fetch(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, "pregunta 1", turns[0].Content)
	assert.Equal(t, "respuesta 2", turns[3].Content)
}

func TestMemoryStoreFetchBoundedSuffix(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "s1",
			assistant.Turn{Role: assistant.RoleUser, Content: "pregunta"},
			assistant.Turn{Role: assistant.RoleAssistant, Content: "respuesta"},
		))
	}

	turns, err := store.Fetch(ctx, "s1", 3)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
	// The suffix must end with the newest turn.
	assert.Equal(t, assistant.RoleAssistant, turns[2].Role)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", assistant.Turn{Role: assistant.RoleUser, Content: "de a"}))
	require.NoError(t, store.Append(ctx, "b", assistant.Turn{Role: assistant.RoleUser, Content: "de b"}))

	turns, err := store.Fetch(ctx, "a", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "de a", turns[0].Content)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	turns, err := store.Fetch(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Append(ctx, "shared",
				assistant.Turn{Role: assistant.RoleUser, Content: "q"},
				assistant.Turn{Role: assistant.RoleAssistant, Content: "a"},
			)
		}()
	}
	wg.Wait()

	turns, err := store.Fetch(ctx, "shared", 100)
	require.NoError(t, err)
	assert.Len(t, turns, 40)
}
