package ports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lienzo/pkg/domain"
)

func contractCanvas(id, label string) *domain.Canvas {
	doc := domain.NewCanvas(id, "Contract")
	doc.Nodes = append(doc.Nodes,
		domain.Node{ID: "intro", Kind: domain.KindScreen, Label: label, Props: map[string]any{domain.PropTemplateID: domain.DefaultTemplate}},
		domain.Node{ID: "fin", Kind: domain.KindEnd, Label: "Fin", Props: map[string]any{}},
	)
	doc.Edges = append(doc.Edges,
		domain.Edge{ID: "edge_1", From: "start", To: "intro", Kind: domain.TransitionDirect},
		domain.Edge{ID: "edge_2", From: "intro", To: "fin", Kind: domain.TransitionDirect},
	)
	return doc
}

func contractRecorrido(id string) *domain.Recorrido {
	rec := domain.NewRecorrido(id)
	rec.EntryStepID = "intro"
	rec.Steps.Set("intro", domain.Step{ScreenTemplateID: domain.DefaultTemplate, Props: map[string]any{}})
	rec.Steps.Set("outro", domain.Step{ScreenTemplateID: domain.EndingTemplate, Props: map[string]any{}})
	rec.Edges = append(rec.Edges, domain.Transition{From: "intro", To: "outro", Condition: domain.Condition{Type: domain.ConditionAlways}})
	return rec
}

// RunStoreContract runs a suite of tests to verify that a Store implementation
// adheres to the defined interface contract. Document ids are unique per run
// so shared backends can be reused.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	run := uuid.NewString()

	t.Run("Missing draft", func(t *testing.T) {
		_, err := store.GetCurrentDraft(ctx, "missing-"+run)
		assert.ErrorIs(t, err, domain.ErrDraftNotFound)
	})

	t.Run("Put and get", func(t *testing.T) {
		docID := "put-" + run
		draft := &Draft{ID: "draft-" + docID, DocumentID: docID, Definition: contractRecorrido(docID), Canvas: contractCanvas(docID, "Hola")}
		require.NoError(t, store.PutDraft(ctx, draft))
		assert.Equal(t, int64(1), draft.Revision)

		loaded, err := store.GetCurrentDraft(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, loaded.ID)
		assert.Equal(t, int64(1), loaded.Revision)
		assert.Equal(t, draft.Canvas, loaded.Canvas)
		require.NotNil(t, loaded.Definition)
		assert.Equal(t, []string{"intro", "outro"}, loaded.Definition.StepIDs())
		assert.Equal(t, "intro", loaded.Definition.EntryStepID)

		loaded.Canvas.Nodes[1].Label = "changed"
		again, err := store.GetCurrentDraft(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "Hola", again.Canvas.Nodes[1].Label, "returned drafts must not alias stored state")

		require.NoError(t, store.PutDraft(ctx, draft))
		assert.Equal(t, int64(2), draft.Revision)
	})

	t.Run("Definition only", func(t *testing.T) {
		docID := "legacy-" + run
		require.NoError(t, store.PutDraft(ctx, &Draft{ID: "draft-" + docID, DocumentID: docID, Definition: contractRecorrido(docID)}))
		loaded, err := store.GetCurrentDraft(ctx, docID)
		require.NoError(t, err)
		assert.Nil(t, loaded.Canvas)
		assert.NotNil(t, loaded.Definition)
	})

	t.Run("Optimistic update", func(t *testing.T) {
		docID := "update-" + run
		draft := &Draft{ID: "draft-" + docID, DocumentID: docID, Canvas: contractCanvas(docID, "v1")}
		require.NoError(t, store.PutDraft(ctx, draft))

		res, err := store.UpdateCanvas(ctx, CanvasUpdate{DraftID: draft.ID, Canvas: contractCanvas(docID, "v2"), Actor: "ana", ExpectedRevision: 1})
		require.NoError(t, err)
		assert.Equal(t, UpdateResult{RowCount: 1, Revision: 2}, res)

		loaded, err := store.GetCurrentDraft(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "v2", loaded.Canvas.Nodes[1].Label)
		assert.Equal(t, "ana", loaded.UpdatedBy)
		assert.Equal(t, int64(2), loaded.Revision)
		assert.False(t, loaded.UpdatedAt.IsZero())

		stale, err := store.UpdateCanvas(ctx, CanvasUpdate{DraftID: draft.ID, Canvas: contractCanvas(docID, "lost"), Actor: "bob", ExpectedRevision: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(0), stale.RowCount)

		loaded, err = store.GetCurrentDraft(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "v2", loaded.Canvas.Nodes[1].Label, "a stale write must not land")

		res, err = store.UpdateCanvas(ctx, CanvasUpdate{DraftID: draft.ID, Canvas: contractCanvas(docID, "v3"), Actor: "bob"})
		require.NoError(t, err)
		assert.Equal(t, UpdateResult{RowCount: 1, Revision: 3}, res)
	})

	t.Run("Update unknown draft", func(t *testing.T) {
		res, err := store.UpdateCanvas(ctx, CanvasUpdate{DraftID: "ghost-" + run, Canvas: contractCanvas("ghost", "x")})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.RowCount)
	})

	t.Run("Versions", func(t *testing.T) {
		docID := "versions-" + run
		_, err := store.LatestVersion(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrVersionNotFound)

		for n := 1; n <= 2; n++ {
			err := store.CreateVersion(ctx, &Version{DocumentID: docID, Number: n, Definition: contractRecorrido(docID), PublishedBy: "ana"})
			require.NoError(t, err)
		}
		latest, err := store.LatestVersion(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Number)
		assert.Equal(t, "ana", latest.PublishedBy)
		assert.Equal(t, []string{"intro", "outro"}, latest.Definition.StepIDs())

		err = store.CreateVersion(ctx, &Version{DocumentID: docID, Number: 2, Definition: contractRecorrido(docID)})
		assert.ErrorIs(t, err, domain.ErrVersionExists)
	})
}
