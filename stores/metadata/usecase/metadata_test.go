package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

type fakeWebResource struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeWebResource) Get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	return f.GetJson(c, rawUrl)
}

func (f *fakeWebResource) GetJson(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func newTestUseCase(web *fakeWebResource) *metadataUseCase {
	return NewMetadataUseCase(&MetadataUseCaseCfg{
		WebResource: web,
		CtxTimeout:  time.Second,
		CacheSize:   1,
		CacheTtl:    time.Minute,
	}).(*metadataUseCase)
}

func TestFetchParsesMetadata(t *testing.T) {
	web := &fakeWebResource{
		data: []byte(`{"name":"punk #7","image":"ipfs://QmHash/7.png","attributes":[{"trait_type":"Category","value":"art"}]}`),
	}
	u := newTestUseCase(web)

	meta := u.Fetch(bCtx.Background(), "ipfs://QmHash/7")
	assert.Equal(t, "punk #7", meta.Name)
	assert.Equal(t, "ipfs://QmHash/7.png", meta.Image)
	assert.Len(t, meta.Attributes, 1)
}

func TestFetchReturnsEmptyOnFailure(t *testing.T) {
	web := &fakeWebResource{err: xerrors.Errorf("host unreachable")}
	u := newTestUseCase(web)

	meta := u.Fetch(bCtx.Background(), "https://unreachable.example/7.json")
	assert.NotNil(t, meta)
	assert.Empty(t, meta.Name)
	assert.Empty(t, meta.Attributes)
}

func TestFetchReturnsEmptyOnMalformedJson(t *testing.T) {
	web := &fakeWebResource{data: []byte(`["not","an","object"]`)}
	u := newTestUseCase(web)

	meta := u.Fetch(bCtx.Background(), "ipfs://QmHash/7")
	assert.NotNil(t, meta)
	assert.Empty(t, meta.Name)
}

func TestFetchUsesCache(t *testing.T) {
	web := &fakeWebResource{data: []byte(`{"name":"punk #7"}`)}
	u := newTestUseCase(web)

	ctx := bCtx.Background()
	u.Fetch(ctx, "ipfs://QmHash/7")
	u.Fetch(ctx, "ipfs://QmHash/7")

	assert.Equal(t, 1, web.calls)
}

func TestFetchEmptyTokenUri(t *testing.T) {
	web := &fakeWebResource{}
	u := newTestUseCase(web)

	meta := u.Fetch(bCtx.Background(), "")
	assert.NotNil(t, meta)
	assert.Equal(t, 0, web.calls)
}
