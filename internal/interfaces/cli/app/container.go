// Package app wires configuration, persistence and use cases for the CLI commands.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	adhocUsecases "github.com/milkrun/milkrun/internal/application/adhoc/usecases"
	billingUsecases "github.com/milkrun/milkrun/internal/application/billing/usecases"
	deliveryServices "github.com/milkrun/milkrun/internal/application/delivery/services"
	deliveryUsecases "github.com/milkrun/milkrun/internal/application/delivery/usecases"
	settingUsecases "github.com/milkrun/milkrun/internal/application/setting/usecases"
	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	"github.com/milkrun/milkrun/internal/domain/adhoc"
	"github.com/milkrun/milkrun/internal/domain/billing"
	"github.com/milkrun/milkrun/internal/domain/catalog"
	"github.com/milkrun/milkrun/internal/domain/customer"
	"github.com/milkrun/milkrun/internal/domain/delivery"
	"github.com/milkrun/milkrun/internal/domain/holiday"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/domain/subscription"
	"github.com/milkrun/milkrun/internal/infrastructure/cache"
	"github.com/milkrun/milkrun/internal/infrastructure/config"
	"github.com/milkrun/milkrun/internal/infrastructure/metrics"
	"github.com/milkrun/milkrun/internal/infrastructure/pubsub"
	"github.com/milkrun/milkrun/internal/infrastructure/repository"
	"github.com/milkrun/milkrun/internal/infrastructure/scheduler"
	"github.com/milkrun/milkrun/internal/shared/db"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

type repositories struct {
	subscription  subscription.Repository
	vacation      subscription.VacationRepository
	delivery      delivery.Repository
	product       catalog.Repository
	address       customer.AddressRepository
	holiday       holiday.Repository
	adhocRequest  adhoc.RequestRepository
	adhocCapacity adhoc.CapacityRepository
	bill          billing.BillRepository
	payment       billing.PaymentRepository
	wallet        billing.WalletRepository
	setting       setting.Repository
}

// UseCases exposes every application operation to the commands.
type UseCases struct {
	CreateSubscription  *subscriptionUsecases.CreateSubscriptionUseCase
	UpdateSubscription  *subscriptionUsecases.UpdateSubscriptionUseCase
	PauseSubscription   *subscriptionUsecases.PauseSubscriptionUseCase
	ResumeSubscription  *subscriptionUsecases.ResumeSubscriptionUseCase
	CancelSubscription  *subscriptionUsecases.CancelSubscriptionUseCase
	ExpireSubscriptions *subscriptionUsecases.ExpireSubscriptionsUseCase
	GenerateSchedule    *subscriptionUsecases.GenerateScheduleUseCase

	RecordFulfillment *deliveryUsecases.RecordFulfillmentUseCase

	CreateAdhocRequest     *adhocUsecases.CreateAdhocRequestUseCase
	UpdateAdhocRequest     *adhocUsecases.UpdateAdhocRequestUseCase
	CancelAdhocRequest     *adhocUsecases.CancelAdhocRequestUseCase
	ReviewAdhocRequest     *adhocUsecases.ReviewAdhocRequestUseCase
	GetCapacity            *adhocUsecases.GetCapacityUseCase
	UpdateCapacitySettings *adhocUsecases.UpdateCapacitySettingsUseCase

	GenerateBill           *billingUsecases.GenerateBillUseCase
	GenerateBillsForPeriod *billingUsecases.GenerateBillsForPeriodUseCase
	RecordPayment          *billingUsecases.RecordPaymentUseCase
	TopUpWallet            *billingUsecases.TopUpWalletUseCase
	MarkOverdueBills       *billingUsecases.MarkOverdueBillsUseCase
	CancelBill             *billingUsecases.CancelBillUseCase

	UpdateSetting *settingUsecases.UpdateSettingUseCase
}

// Container holds the infrastructure components and use cases of one process.
type Container struct {
	cfg   *config.Config
	db    *gorm.DB
	redis *redis.Client
	log   logger.Interface

	eventBus  *pubsub.RedisDomainEventBus
	publisher events.EventPublisher
	settings  *settingUsecases.SettingProvider
	metrics   *metrics.Recorder

	repos    *repositories
	UseCases *UseCases
}

// NewContainer wires everything on top of an open database. redisClient may be
// nil, in which case settings are read uncached and events are dropped.
func NewContainer(cfg *config.Config, gdb *gorm.DB, redisClient *redis.Client, log logger.Interface) *Container {
	c := &Container{
		cfg:       cfg,
		db:        gdb,
		redis:     redisClient,
		log:       log,
		publisher: events.NopPublisher{},
		metrics:   metrics.NewRecorder(),
	}

	var settingsCache settingUsecases.SettingsCache
	if redisClient != nil {
		ttl := time.Duration(cfg.Business.SettingsCacheTTL) * time.Second
		settingsCache = cache.NewRedisSettingsCache(redisClient, ttl, log.Named("settings.cache"))
		c.eventBus = pubsub.NewRedisDomainEventBus(redisClient, log.Named("events"))
		c.publisher = c.eventBus
	}

	c.repos = newRepositories(gdb, log)
	c.settings = settingUsecases.NewSettingProvider(c.repos.setting, cfg.Business, settingsCache, log.Named("settings"))
	c.UseCases = c.newUseCases(db.NewTransactionManager(gdb), settingsCache)

	return c
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscription:  repository.NewSubscriptionRepository(gdb, log),
		vacation:      repository.NewVacationRepository(gdb, log),
		delivery:      repository.NewDeliveryRepository(gdb, log),
		product:       repository.NewProductRepository(gdb, log),
		address:       repository.NewAddressRepository(gdb),
		holiday:       repository.NewHolidayRepository(gdb),
		adhocRequest:  repository.NewAdhocRequestRepository(gdb, log),
		adhocCapacity: repository.NewAdhocCapacityRepository(gdb, log),
		bill:          repository.NewBillRepository(gdb, log),
		payment:       repository.NewPaymentRepository(gdb, log),
		wallet:        repository.NewWalletRepository(gdb, log),
		setting:       repository.NewSystemSettingRepository(gdb, log),
	}
}

func (c *Container) newUseCases(txManager db.Transactor, settingsCache settingUsecases.SettingsCache) *UseCases {
	r := c.repos
	log := c.log

	materializer := deliveryServices.NewMaterializer(r.delivery, r.vacation, r.holiday, log.Named("materializer"))
	ledger := adhocUsecases.NewCapacityLedger(r.adhocCapacity, log.Named("capacity"))
	billGenerator := billingUsecases.NewGenerateBillUseCase(
		r.bill, r.wallet, r.delivery, r.product, r.vacation, r.holiday,
		c.settings, txManager, c.publisher, log,
	)

	return &UseCases{
		CreateSubscription:  subscriptionUsecases.NewCreateSubscriptionUseCase(r.subscription, r.product, r.address, c.settings, materializer, log),
		UpdateSubscription:  subscriptionUsecases.NewUpdateSubscriptionUseCase(r.subscription, r.delivery, c.settings, materializer, txManager, log),
		PauseSubscription:   subscriptionUsecases.NewPauseSubscriptionUseCase(r.subscription, r.delivery, c.settings, txManager, c.publisher, log),
		ResumeSubscription:  subscriptionUsecases.NewResumeSubscriptionUseCase(r.subscription, c.settings, materializer, txManager, c.publisher, log),
		CancelSubscription:  subscriptionUsecases.NewCancelSubscriptionUseCase(r.subscription, r.delivery, txManager, c.publisher, log),
		ExpireSubscriptions: subscriptionUsecases.NewExpireSubscriptionsUseCase(r.subscription, c.publisher, log),
		GenerateSchedule:    subscriptionUsecases.NewGenerateScheduleUseCase(r.subscription, c.settings, materializer, log),

		RecordFulfillment: deliveryUsecases.NewRecordFulfillmentUseCase(r.delivery, log),

		CreateAdhocRequest:     adhocUsecases.NewCreateAdhocRequestUseCase(r.adhocRequest, r.product, r.address, ledger, c.settings, log),
		UpdateAdhocRequest:     adhocUsecases.NewUpdateAdhocRequestUseCase(r.adhocRequest, r.product, ledger, c.settings, txManager, log),
		CancelAdhocRequest:     adhocUsecases.NewCancelAdhocRequestUseCase(r.adhocRequest, r.delivery, ledger, c.settings, txManager, c.publisher, log),
		ReviewAdhocRequest:     adhocUsecases.NewReviewAdhocRequestUseCase(r.adhocRequest, ledger, materializer, c.settings, txManager, c.publisher, log),
		GetCapacity:            adhocUsecases.NewGetCapacityUseCase(ledger, c.settings, log),
		UpdateCapacitySettings: adhocUsecases.NewUpdateCapacitySettingsUseCase(r.adhocCapacity, ledger, c.settings, log),

		GenerateBill:           billGenerator,
		GenerateBillsForPeriod: billingUsecases.NewGenerateBillsForPeriodUseCase(r.subscription, billGenerator, log),
		RecordPayment:          billingUsecases.NewRecordPaymentUseCase(r.bill, r.payment, r.wallet, txManager, c.publisher, log),
		TopUpWallet:            billingUsecases.NewTopUpWalletUseCase(r.wallet, txManager, log),
		MarkOverdueBills:       billingUsecases.NewMarkOverdueBillsUseCase(r.bill, c.publisher, log),
		CancelBill:             billingUsecases.NewCancelBillUseCase(r.bill, r.payment, r.wallet, txManager, c.publisher, log),

		UpdateSetting: settingUsecases.NewUpdateSettingUseCase(r.setting, settingsCache, log),
	}
}

// NewScheduler registers the worker jobs on a fresh scheduler.
func (c *Container) NewScheduler() (*scheduler.SchedulerManager, error) {
	m, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	uc := c.UseCases
	if err := m.RegisterScheduleJobs(
		c.cfg.Worker.ScheduleCron,
		scheduler.NewExpireSubscriptionsJob(uc.ExpireSubscriptions, c.metrics),
		scheduler.NewGenerateScheduleJob(uc.GenerateSchedule, c.metrics),
	); err != nil {
		return nil, fmt.Errorf("failed to register schedule jobs: %w", err)
	}
	if err := m.RegisterBillingJobs(
		c.cfg.Worker.BillingCron,
		scheduler.NewGenerateBillsJob(uc.GenerateBillsForPeriod, c.metrics),
	); err != nil {
		return nil, fmt.Errorf("failed to register billing jobs: %w", err)
	}
	if err := m.RegisterMaintenanceJobs(
		c.cfg.Worker.MaintenanceCron,
		scheduler.NewMarkOverdueBillsJob(uc.MarkOverdueBills, c.metrics),
	); err != nil {
		return nil, fmt.Errorf("failed to register maintenance jobs: %w", err)
	}

	return m, nil
}

// BusinessSettings returns the effective settings snapshot.
func (c *Container) BusinessSettings(ctx context.Context) (setting.BusinessSettings, error) {
	return c.settings.BusinessSettings(ctx)
}

// EventBus is nil when Redis is disabled.
func (c *Container) EventBus() *pubsub.RedisDomainEventBus { return c.eventBus }

func (c *Container) Metrics() *metrics.Recorder { return c.metrics }

func (c *Container) Config() *config.Config { return c.cfg }

func (c *Container) DB() *gorm.DB { return c.db }

func (c *Container) Logger() logger.Interface { return c.log }
