package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	ipfsapi "github.com/ipfs/go-ipfs-api"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	bCtx "github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ctx"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/database/mongoclient"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/ethereum"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/log"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/base/tracker"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/domain/collection"
	mmiddleware "github.com/Kaksie-codes/my-nft-marketplace-sub000/middleware"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain"
	serviceContract "github.com/Kaksie-codes/my-nft-marketplace-sub000/service/chain/contract"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/service/query"
	activityRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/activity/repository"
	colRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/collection/repository"
	colUseCase "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/collection/usecase"
	listingRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/listing/repository"
	listingUseCase "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/listing/usecase"
	metadataUseCase "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/metadata/usecase"
	nftitemRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/nftitem/repository"
	nftitemUseCase "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/nftitem/usecase"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/tracker_state/repository/mongo"
	"github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/tracker_state/usecase"
	webresourceRepo "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/webresource/repository"
	webresourceUseCase "github.com/Kaksie-codes/my-nft-marketplace-sub000/stores/webresource/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/indexer/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}

	// overwrite active network in the config if the environment has been set
	viper.BindEnv("ACTIVENETWORK")
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// start server to pass health checks
	startEchoServer()

	ctxTimeout := viper.GetDuration("context.timeout")
	checkNewContractInterval := viper.GetDuration("indexer.checkNewContractInterval")
	followDistance := viper.GetUint64("indexer.followDistance")
	activeNetwork := viper.GetString("activeNetwork")
	networkInfo := viper.Sub(fmt.Sprintf("networks.%s", activeNetwork))
	chainId := networkInfo.GetInt64("chainId")
	wsUrl := networkInfo.GetString("wsUrl")
	rpcUrl := networkInfo.GetString("rpcUrl")

	contractInfo := viper.Sub(fmt.Sprintf("contract.%s", activeNetwork))
	factoryContract := contractInfo.GetString("factory")
	marketplaceContract := contractInfo.GetString("marketplace")

	metadataInfo := viper.Sub("metadata")
	metadataTimeout := metadataInfo.GetDuration("timeout")
	metadataCacheSize := metadataInfo.GetInt("cacheSize")
	metadataCacheTtl := metadataInfo.GetDuration("cacheTtl")
	ipfsGateway := metadataInfo.GetString("ipfsGateway")
	ipfsApiUrl := metadataInfo.GetString("ipfsApiUrl")

	ctx.WithFields(log.Fields{
		"network":             activeNetwork,
		"chainId":             chainId,
		"wsUrl":               wsUrl,
		"rpcUrl":              rpcUrl,
		"factoryContract":     factoryContract,
		"marketplaceContract": marketplaceContract,
	}).Info("config")

	ctx.Info("init mongo")
	q := initMongo()
	ctx.Info("connecting eth clients")
	wsClient, rpcClient := initEthClient(ctx, wsUrl, rpcUrl)
	_clientProvider := newClientProvider(ctx, 15, wsUrl)
	throttledClient := ethereum.NewThrottledClient(rpcClient, 100)
	errCh := make(chan error, 10)
	chainService, err := chain.NewClient(ctx, &chain.ClientCfg{
		RpcUrls: map[int32]string{
			int32(chainId): rpcUrl,
		},
	})
	if err != nil {
		ctx.WithField("err", err).Panic("chainService init failed")
	}
	marketplaceReader := serviceContract.NewMarketplace(chainService)

	// repos
	trackerStateRepo := mongo.NewTrackerStateMongoRepo(q)
	collectionRepo := colRepo.NewCollection(q)
	nftRepo := nftitemRepo.NewNftItem(q)
	lRepo := listingRepo.NewListing(q)
	bidRepo := listingRepo.NewBid(q)
	actRepo := activityRepo.NewActivity(q)

	// metadata pipeline, prefer a dedicated ipfs node when one is
	// configured, otherwise go through a public gateway
	var ipfsReader domain.WebResourceReaderRepository
	if ipfsApiUrl != "" {
		ipfsReader = webresourceRepo.NewIpfsNodeApiReaderRepo(ipfsapi.NewShell(ipfsApiUrl), metadataTimeout)
	} else {
		ipfsReader = webresourceRepo.NewIpfsGatewayReaderRepo(http.Client{}, ipfsGateway, metadataTimeout)
	}
	webResourceUC := webresourceUseCase.NewWebResourceUseCase(&webresourceUseCase.WebResourceUseCaseCfg{
		HttpReader:    webresourceRepo.NewHttpReaderRepo(http.Client{}, metadataTimeout, nil),
		IpfsReader:    ipfsReader,
		DataUriReader: webresourceRepo.NewDataUriReaderRepo(),
	})
	metadataUC := metadataUseCase.NewMetadataUseCase(&metadataUseCase.MetadataUseCaseCfg{
		WebResource: webResourceUC,
		CtxTimeout:  metadataTimeout,
		CacheSize:   metadataCacheSize,
		CacheTtl:    metadataCacheTtl,
	})

	// usecases
	tsUseCase := usecase.NewTrackerStateUseCase(trackerStateRepo, ctxTimeout)
	collectionUC := colUseCase.NewCollectionUseCase(collectionRepo)
	collectionEventUC := colUseCase.NewCollectionEventUseCase(&colUseCase.CollectionEventUseCaseCfg{
		CollectionRepo: collectionRepo,
	})
	nftitemEventUC := nftitemUseCase.NewNftItemEventUseCase(&nftitemUseCase.NftItemEventUseCaseCfg{
		NftItemRepo:        nftRepo,
		ActivityRepo:       actRepo,
		MetadataUseCase:    metadataUC,
		MarketplaceAddress: domain.Address(marketplaceContract),
	})
	listingEventUC := listingUseCase.NewListingEventUseCase(&listingUseCase.ListingEventUseCaseCfg{
		ListingRepo:         lRepo,
		BidRepo:             bidRepo,
		ActivityRepo:        actRepo,
		NftItemUseCase:      nftitemUseCase.NewNftItemUseCase(nftRepo),
		MarketplaceContract: marketplaceReader,
		MarketplaceAddress:  domain.Address(marketplaceContract),
	})

	currentBlockGetter := tracker.NewCurrentBlockGetter(&tracker.CurrentBlockGetterCfg{
		Client: wsClient,
		ErrCh:  errCh,
	})

	// handlers
	collectionHandler := tracker.NewCollectionEventHandler(&tracker.CollectionEventHandlerCfg{
		ChainId:           chainId,
		NftItemUseCase:    nftitemEventUC,
		CollectionUseCase: collectionEventUC,
	})
	marketplaceHandler := tracker.NewMarketplaceEventHandler(&tracker.MarketplaceEventHandlerCfg{
		ChainId:        chainId,
		ListingUseCase: listingEventUC,
	})

	// one supervised tracker per collection contract, restarted with
	// backoff when its subscription dies
	registry := tracker.NewRegistry(&tracker.RegistryCfg{
		NewTracker: func(addr common.Address, trackerErrCh chan<- error) (tracker.Runner, error) {
			return tracker.NewEventTracker(&tracker.EventTrackerCfg{
				ChainId:             chainId,
				CurrentBlockGetter:  currentBlockGetter,
				Mongo:               q,
				WsClient:            _clientProvider.consume(ctx),
				RpcClient:           throttledClient,
				TrackerStateUseCase: tsUseCase,
				TrackerTag:          domain.DefaultTag,
				FollowDistance:      followDistance,
				ContractAddress:     addr,
				EventHandl:          collectionHandler,
				ErrorCh:             trackerErrCh,
			})
		},
		ErrorCh: errCh,
	})

	factoryHandler := tracker.NewFactoryEventHandler(&tracker.FactoryEventHandlerCfg{
		ChainId:           chainId,
		CollectionUseCase: collectionEventUC,
		OnNewCollection: func(c bCtx.Ctx, addr domain.Address) {
			c.WithField("contract", addr).Info("tracking new collection contract")
			registry.Add(ctx, addr)
		},
	})

	factoryTracker, err := tracker.NewEventTracker(&tracker.EventTrackerCfg{
		ChainId:             chainId,
		CurrentBlockGetter:  currentBlockGetter,
		Mongo:               q,
		WsClient:            _clientProvider.consume(ctx),
		RpcClient:           throttledClient,
		TrackerStateUseCase: tsUseCase,
		TrackerTag:          "factory",
		FollowDistance:      followDistance,
		ContractAddress:     common.HexToAddress(factoryContract),
		EventHandl:          factoryHandler,
		ErrorCh:             errCh,
	})
	if err != nil {
		ctx.WithField("err", err).Panic("new factory tracker failed")
	}

	marketplaceTracker, err := tracker.NewEventTracker(&tracker.EventTrackerCfg{
		ChainId:             chainId,
		CurrentBlockGetter:  currentBlockGetter,
		Mongo:               q,
		WsClient:            _clientProvider.consume(ctx),
		RpcClient:           throttledClient,
		TrackerStateUseCase: tsUseCase,
		TrackerTag:          "marketplace",
		ShouldDecodeSender:  true,
		FollowDistance:      followDistance,
		ContractAddress:     common.HexToAddress(marketplaceContract),
		EventHandl:          marketplaceHandler,
		ErrorCh:             errCh,
	})
	if err != nil {
		ctx.WithField("err", err).Panic("new marketplace tracker failed")
	}

	ctx.Info("starting workers")
	if err := currentBlockGetter.Start(ctx); err != nil {
		ctx.WithField("err", err).Panic("currentBlockGetter.Start failed")
	}
	factoryTracker.Start(ctx)

	// collections discovered before this process started
	collections, err := collectionUC.FindAll(ctx, collection.WithChainId(domain.ChainId(chainId)))
	if err != nil {
		ctx.WithField("err", err).Panic("collectionUC.FindAll failed")
	}
	ctx.Info(fmt.Sprintf("%d collection contracts", len(collections)))
	for _, col := range collections {
		ctx.WithField("contract", col.Address).Info("tracking collection contract")
		registry.Add(ctx, col.Address)
	}

	marketplaceTracker.Start(ctx)

	ticker := time.NewTicker(checkNewContractInterval)
	defer ticker.Stop()
FOR:
	for {
		select {
		case err := <-errCh:
			ctx.WithField("err", err).Error("tracker error")
			break FOR
		case <-ticker.C:
			ctx.Info("checking for new collection contracts")
			collections, err := collectionUC.FindAll(ctx, collection.WithChainId(domain.ChainId(chainId)))
			if err != nil {
				ctx.WithField("err", err).Error("collectionUC.FindAll failed")
				break FOR
			}
			for _, col := range collections {
				if !registry.Has(col.Address) {
					ctx.WithField("contract", col.Address).Info("tracking collection contract")
					registry.Add(ctx, col.Address)
				}
			}
		}
	}

	go func() {
		for range errCh {
		}
	}()
	cancel()

	factoryTracker.Wait()
	marketplaceTracker.Wait()
	registry.Wait()
	currentBlockGetter.Wait()
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}

func initEthClient(ctx bCtx.Ctx, wsUrl, rpcUrl string) (*ethclient.Client, *ethclient.Client) {
	wsClient, err := ethclient.DialContext(ctx, wsUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": wsUrl,
		}).Panic("failed to connect ws rpc")
	}

	rpcClient, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"url": rpcUrl,
		}).Panic("failed to connect rpc")
	}

	return wsClient, rpcClient
}
