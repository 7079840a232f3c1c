package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	billingUsecases "github.com/milkrun/milkrun/internal/application/billing/usecases"
	deliveryUsecases "github.com/milkrun/milkrun/internal/application/delivery/usecases"
	settingUsecases "github.com/milkrun/milkrun/internal/application/setting/usecases"
	subscriptionUsecases "github.com/milkrun/milkrun/internal/application/subscription/usecases"
	billingvo "github.com/milkrun/milkrun/internal/domain/billing/valueobjects"
	deliveryvo "github.com/milkrun/milkrun/internal/domain/delivery/valueobjects"
	"github.com/milkrun/milkrun/internal/domain/setting"
	"github.com/milkrun/milkrun/internal/infrastructure/config"
	"github.com/milkrun/milkrun/internal/infrastructure/persistence/models"
	"github.com/milkrun/milkrun/internal/shared/biztime"
	sharedConfig "github.com/milkrun/milkrun/internal/shared/config"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

const testCustomerID = 7

func newTestContainer(t *testing.T) (*Container, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "milkrun.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Business: sharedConfig.BusinessConfig{LookaheadDays: 7, SettingsCacheTTL: 60},
		Worker: sharedConfig.WorkerConfig{
			ScheduleCron:    "30 0 * * *",
			BillingCron:     "0 2 1 * *",
			MaintenanceCron: "15 1 * * *",
		},
	}

	require.NoError(t, gdb.Create(&models.ProductModel{Name: "Toned milk", Unit: "L", Price: decimal.NewFromInt(60), IsActive: true}).Error)
	require.NoError(t, gdb.Create(&models.AddressModel{CustomerID: testCustomerID, Line: "12 Dairy Lane"}).Error)

	return NewContainer(cfg, gdb, client, logger.NewNopLogger()), gdb
}

func freezeToday(t *testing.T) {
	restore := biztime.SetNowFunc(func() time.Time {
		return time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	})
	t.Cleanup(restore)
}

func TestContainer_SubscriptionToPaidBill(t *testing.T) {
	freezeToday(t)
	c, gdb := newTestContainer(t)
	ctx := context.Background()
	uc := c.UseCases

	sub, err := uc.CreateSubscription.Execute(ctx, subscriptionUsecases.CreateSubscriptionCommand{
		CustomerID: testCustomerID,
		ProductID:  1,
		AddressID:  1,
		Quantity:   decimal.NewFromInt(1),
		Frequency:  "DAILY",
		StartDate:  biztime.Today(),
	})
	require.NoError(t, err)
	require.NotZero(t, sub.ID())

	var rows []models.DeliveryModel
	require.NoError(t, gdb.Order("delivery_date").Find(&rows).Error)
	require.NotEmpty(t, rows)

	again, err := uc.GenerateSchedule.Execute(ctx, subscriptionUsecases.GenerateScheduleCommand{})
	require.NoError(t, err)
	assert.Zero(t, again.Created)

	for _, row := range rows[:2] {
		_, err := uc.RecordFulfillment.Execute(ctx, deliveryUsecases.RecordFulfillmentCommand{
			DeliveryID: row.ID,
			Status:     deliveryvo.StatusDelivered,
		})
		require.NoError(t, err)
	}

	bill, err := uc.GenerateBill.Execute(ctx, billingUsecases.GenerateBillCommand{
		CustomerID:  testCustomerID,
		PeriodStart: biztime.Date(2025, 3, 1),
		PeriodEnd:   biztime.Date(2025, 3, 31),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(bill.TotalAmount()), "total %s", bill.TotalAmount())
	assert.Equal(t, 2, bill.TotalDeliveries())

	_, err = uc.RecordPayment.Execute(ctx, billingUsecases.RecordPaymentCommand{
		BillID: bill.ID(),
		Amount: decimal.NewFromInt(120),
		Method: "UPI",
	})
	require.NoError(t, err)

	stored, err := c.repos.bill.GetByID(ctx, bill.ID())
	require.NoError(t, err)
	assert.Equal(t, billingvo.BillStatusPaid, stored.Status())
}

func TestContainer_SettingUpdateInvalidatesCache(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	before, err := c.BusinessSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, before.LookaheadDays)

	require.NoError(t, c.UseCases.UpdateSetting.Execute(ctx, settingUsecases.UpdateSettingCommand{
		Key:   setting.KeyScheduleLookaheadDays,
		Value: "3",
	}))

	after, err := c.BusinessSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, after.LookaheadDays)
}

func TestContainer_NewScheduler(t *testing.T) {
	c, _ := newTestContainer(t)

	m, err := c.NewScheduler()
	require.NoError(t, err)
	assert.Len(t, m.Jobs(), 3)
}

func TestContainer_WithoutRedis(t *testing.T) {
	c, gdb := newTestContainer(t)

	plain := NewContainer(c.Config(), gdb, nil, logger.NewNopLogger())
	assert.Nil(t, plain.EventBus())

	s, err := plain.BusinessSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, s.DefaultCapacity)
}
