package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/api"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/listsync"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestKnowledgeService_Add(t *testing.T) {
	fake := &fakeKnowledgeAPI{addResp: &models.AddKnowledgeResponse{ID: "k1", Message: "added"}}
	svc := NewKnowledgeService(fake)

	resp, err := svc.Add(context.Background(), KnowledgeInput{
		Title:    "  Go  ",
		Content:  "generics",
		Source:   "   ",
		Metadata: "lang:go, broken, :x,level:2",
	})
	require.NoError(t, err)
	assert.Equal(t, "k1", resp.ID)

	require.Len(t, fake.added, 1)
	got := fake.added[0]
	assert.Equal(t, "Go", got.Title)
	assert.Empty(t, got.Source)
	assert.Equal(t, map[string]any{"lang": "go", "level": "2"}, got.Metadata)
}

func TestKnowledgeService_Add_Validation(t *testing.T) {
	fake := &fakeKnowledgeAPI{}
	svc := NewKnowledgeService(fake)

	for _, in := range []KnowledgeInput{
		{Title: "", Content: "x"},
		{Title: "x", Content: "  "},
	} {
		_, err := svc.Add(context.Background(), in)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	assert.Empty(t, fake.added, "validation must not issue a request")
}

func TestKnowledgeService_Add_IncompleteResponse(t *testing.T) {
	for name, resp := range map[string]*models.AddKnowledgeResponse{
		"nil":        nil,
		"no id":      {Message: "added"},
		"no message": {ID: "k1"},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewKnowledgeService(&fakeKnowledgeAPI{addResp: resp})
			_, err := svc.Add(context.Background(), KnowledgeInput{Title: "t", Content: "c"})
			require.ErrorIs(t, err, api.ErrDecode)
		})
	}
}

func TestKnowledgeService_Update(t *testing.T) {
	fake := &fakeKnowledgeAPI{}
	svc := NewKnowledgeService(fake)

	require.ErrorIs(t, svc.Update(context.Background(), "k1", models.UpdateKnowledgeRequest{}), common.ErrValidation)
	require.ErrorIs(t, svc.Update(context.Background(), "", models.UpdateKnowledgeRequest{Title: strPtr("t")}), common.ErrValidation)
	require.ErrorIs(t, svc.Update(context.Background(), "k1", models.UpdateKnowledgeRequest{Title: strPtr(" ")}), common.ErrValidation)
	require.ErrorIs(t, svc.Update(context.Background(), "k1", models.UpdateKnowledgeRequest{Content: strPtr("")}), common.ErrValidation)
	assert.Empty(t, fake.updated)

	in := models.UpdateKnowledgeRequest{Source: strPtr("book")}
	require.NoError(t, svc.Update(context.Background(), "k1", in))
	assert.Equal(t, in, fake.updated["k1"])
}

func TestKnowledgeService_AsListSource(t *testing.T) {
	fake := &fakeKnowledgeAPI{page: models.NewPage([]models.Knowledge{{ID: "k1"}}, 1, 1, 15)}
	var src listsync.Source[models.Knowledge] = NewKnowledgeService(fake)

	page, err := src.List(context.Background(), listsync.Query{Page: 2, Limit: 15, SortOrder: models.SortOldest})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []api.KnowledgeQuery{{Page: 2, Limit: 15, SortOrder: models.SortOldest}}, fake.queries)

	require.NoError(t, src.Delete(context.Background(), "k1"))
	require.NoError(t, src.DeleteAll(context.Background()))
	assert.Equal(t, []string{"k1"}, fake.deleted)
	assert.Equal(t, 1, fake.deleteAll)
}
