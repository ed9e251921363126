package repository

import (
	"reflect"
	"testing"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
)

func Test_dataUriReaderRepo_Get(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    []byte
		wantErr bool
	}{
		{
			name:    "invalid schema",
			uri:     "https://url",
			wantErr: true,
		},
		{
			name:    "no data part",
			uri:     "data:application/json;base64,",
			wantErr: true,
		},
		{
			name:    "no data part",
			uri:     "data:application/json;base64",
			wantErr: true,
		},
		{
			name: "plain utf8 json",
			uri:  `data:application/json;utf8,{"name":"punk #7","image":"ipfs://QmcsrQJMKA9qC9GcEMgdjb9LPN99iDNAg8aQQJLJGpkHxk/7.svg","attributes":[{"trait_type": "Category", "value": "art"}]}`,
			want: []byte(`{"name":"punk #7","image":"ipfs://QmcsrQJMKA9qC9GcEMgdjb9LPN99iDNAg8aQQJLJGpkHxk/7.svg","attributes":[{"trait_type": "Category", "value": "art"}]}`),
		},
		{
			name:    "base64 json",
			uri:     "data:application/json;base64,eyJuYW1lIjoicHVuayAjNyJ9",
			want:    []byte(`{"name":"punk #7"}`),
			wantErr: false,
		},
		{
			name:    "base64 svg image",
			uri:     "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=",
			want:    []byte(`<svg></svg>`),
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDataUriReaderRepo()
			ctx := bCtx.Background()
			got, err := r.Get(ctx, tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("dataUriReaderRepo.Get() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dataUriReaderRepo.Get() = %v, want %v", got, tt.want)
			}
		})
	}
}
