package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFirestoreWeightStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	ws, err := NewFirestoreWeightStore(ctx, "supplier-scoring-test", "settings_"+uuid.NewString(), "")
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	runWeightStoreContract(t, ws)
}
