package document

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/testutil"
)

func TestDocumentOwnershipAndOrdering(t *testing.T) {
	repo := NewDocumentRepository(testutil.NewDB(t))
	ctx := context.Background()

	a, err := repo.Create(ctx, &domain.Document{UserID: 1, Filename: "a.pdf", OriginalFilename: "lease.pdf", FileSize: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, a.ProcessingStatus)
	b, err := repo.Create(ctx, &domain.Document{UserID: 1, Filename: "b.txt", OriginalFilename: "notice.txt", FileSize: 5})
	require.NoError(t, err)

	docs, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, b.ID, docs[0].ID)

	_, err = repo.FindByIDAndUser(ctx, a.ID, 2)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, a.ID, 2), ErrDocumentNotFound)
	require.NoError(t, repo.Delete(ctx, a.ID, 1))
	_, err = repo.FindByIDAndUser(ctx, a.ID, 1)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestUpdateStoresAnalysis(t *testing.T) {
	repo := NewDocumentRepository(testutil.NewDB(t))
	ctx := context.Background()

	doc, err := repo.Create(ctx, &domain.Document{UserID: 3, Filename: "c.pdf", OriginalFilename: "deed.pdf"})
	require.NoError(t, err)

	doc.Summary = "Sale deed"
	doc.KeyPoints = datatypes.NewJSONSlice([]string{"Transfer of title"})
	doc.LegalAnalysis = datatypes.NewJSONType(domain.DocumentAnalysis{ImportantSections: []string{"Section 54 TPA"}})
	doc.ProcessingStatus = domain.StatusCompleted
	doc.Processed = true
	require.NoError(t, repo.Update(ctx, doc))

	got, err := repo.FindByIDAndUser(ctx, doc.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "Sale deed", got.Summary)
	assert.Equal(t, []string{"Transfer of title"}, []string(got.KeyPoints))
	assert.Equal(t, []string{"Section 54 TPA"}, got.LegalAnalysis.Data().ImportantSections)
	assert.True(t, got.Processed)
}

func TestMarkStaleProcessingFailed(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	stale, err := repo.Create(ctx, &domain.Document{UserID: 1, Filename: "s.pdf", OriginalFilename: "s.pdf", ProcessingStatus: domain.StatusProcessing})
	require.NoError(t, err)
	fresh, err := repo.Create(ctx, &domain.Document{UserID: 1, Filename: "f.pdf", OriginalFilename: "f.pdf", ProcessingStatus: domain.StatusProcessing})
	require.NoError(t, err)
	require.NoError(t, db.Model(stale).UpdateColumn("updated_at", time.Now().Add(-2*time.Hour)).Error)

	n, err := repo.MarkStaleProcessingFailed(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.FindByIDAndUser(ctx, stale.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.ProcessingStatus)

	got, err = repo.FindByIDAndUser(ctx, fresh.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.ProcessingStatus)
}
