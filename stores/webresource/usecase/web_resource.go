package usecase

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
)

type WebResourceUseCaseCfg struct {
	HttpReader    domain.WebResourceReaderRepository
	IpfsReader    domain.WebResourceReaderRepository
	DataUriReader domain.WebResourceReaderRepository
}

type webResourceUseCase struct {
	httpReader    domain.WebResourceReaderRepository
	ipfsReader    domain.WebResourceReaderRepository
	dataUriReader domain.WebResourceReaderRepository
}

func NewWebResourceUseCase(cfg *WebResourceUseCaseCfg) domain.WebResourceUseCase {
	return &webResourceUseCase{
		httpReader:    cfg.HttpReader,
		ipfsReader:    cfg.IpfsReader,
		dataUriReader: cfg.DataUriReader,
	}
}

func (u *webResourceUseCase) Get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	return u.get(c, rawUrl)
}

func (u *webResourceUseCase) GetJson(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	data, err := u.get(c, rawUrl)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		c.WithFields(log.Fields{
			"url": rawUrl,
		}).Error("invalid json")
		return nil, domain.ErrInvalidJsonFormat
	}

	return data, nil
}

func (u *webResourceUseCase) get(c bCtx.Ctx, rawUrl string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	pUrl, err := url.Parse(rawUrl)
	if err != nil {
		c.WithFields(log.Fields{
			"url": rawUrl,
			"err": err,
		}).Error("failed to parse url")
		return nil, err
	}

	if pUrl.Scheme == "https" || pUrl.Scheme == "http" {
		data, err = u.httpReader.Get(c, rawUrl)
	} else if pUrl.Scheme == "ipfs" {
		ipfsUrl := strings.TrimPrefix(rawUrl, "ipfs://")
		ipfsUrl = strings.TrimPrefix(ipfsUrl, "ipfs/")
		data, err = u.ipfsReader.Get(c, ipfsUrl)
	} else if pUrl.Scheme == "data" {
		data, err = u.dataUriReader.Get(c, rawUrl)
	} else {
		return nil, domain.ErrUnsupportedSchema
	}

	if err == nil {
		return data, nil
	}

	// gateway urls often front pinned ipfs content, retry over the node
	if pUrl.Scheme == "https" {
		ipfsUrl := getIpfsUrl(rawUrl)
		if len(ipfsUrl) > 0 {
			c.WithFields(log.Fields{
				"url":     rawUrl,
				"ipfsUrl": ipfsUrl,
			}).Info("falling back to ipfs")
			return u.get(c, ipfsUrl)
		}
	}

	c.WithFields(log.Fields{
		"schema": pUrl.Scheme,
		"url":    rawUrl,
		"err":    err,
	}).Error("failed to fetch")
	return nil, err
}

func getIpfsUrl(url string) string {
	var (
		pinataPrefix     = "https://gateway.pinata.cloud/ipfs/"
		ipfsIoPrefix     = "https://ipfs.io/ipfs/"
		cloudflarePrefix = "https://cloudflare-ipfs.com/ipfs/"
		ipfsPrefix       = "ipfs://"
	)

	fixedPrefix := []string{pinataPrefix, ipfsIoPrefix, cloudflarePrefix}
	for _, p := range fixedPrefix {
		if strings.HasPrefix(url, p) {
			return strings.Replace(url, p, ipfsPrefix, 1)
		}
	}
	dedicatedPinataRegex := regexp.MustCompile(`^https://.*.mypinata.cloud/ipfs/`)
	if dedicatedPinataRegex.Match([]byte(url)) {
		return dedicatedPinataRegex.ReplaceAllLiteralString(url, ipfsPrefix)
	}
	return ""
}
