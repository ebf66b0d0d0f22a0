package designrequest

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/rior-backend/internal/media"
	"github.com/wichananm65/rior-backend/internal/product"
	"github.com/wichananm65/rior-backend/internal/recommendation"
	"github.com/wichananm65/rior-backend/internal/store"
	"go.uber.org/zap"
)

// countingRecommender wraps the stub and records how often it ran.
type countingRecommender struct {
	calls atomic.Int32
	next  recommendation.Recommender
}

func (r *countingRecommender) Recommend(ctx context.Context, req recommendation.Request) (recommendation.Payload, error) {
	r.calls.Add(1)
	return r.next.Recommend(ctx, req)
}

type fixture struct {
	repo        *InMemoryRepository
	products    *product.Service
	recommender *countingRecommender
	fs          afero.Fs
	service     *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		repo:        NewInMemoryRepository(),
		products:    product.NewService(product.NewInMemoryRepository(product.SampleCatalog(), store.SampleStores()...)),
		recommender: &countingRecommender{next: recommendation.NewStub()},
		fs:          afero.NewMemMapFs(),
	}
	f.service = NewService(f.repo, f.products, f.recommender, media.NewStorage(f.fs), zap.NewNop(), opts...)
	return f
}

func fileHeader(t *testing.T, field, filename string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File[field][0]
}

func validSubmission(t *testing.T) Submission {
	return Submission{
		FloorPlan:     fileHeader(t, "floor_plan", "plan.png"),
		InteriorPhoto: fileHeader(t, "interior_photo", "room.jpg"),
		DoorHeight:    2.1,
		CeilingHeight: 2.5,
	}
}

// countFiles returns the number of regular files under root.
func countFiles(t *testing.T, fs afero.Fs) int {
	t.Helper()
	n := 0
	err := afero.Walk(fs, "/", func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}
