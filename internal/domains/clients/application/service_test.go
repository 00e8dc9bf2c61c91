package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/memory"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
)

type fakeOrderReferences map[int64]int

func (f fakeOrderReferences) CountByClient(_ context.Context, clientID int64) (int, error) {
	return f[clientID], nil
}

func profile(name, email string) domain.Profile {
	return domain.Profile{Name: name, Email: email, Phone: "11987654321", Address: "Rua Um, 123"}
}

func TestRegister_AssignsSequentialIDs(t *testing.T) {
	registered := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(memory.NewRepository(), WithClock(func() time.Time { return registered }))
	ctx := context.Background()

	first, err := svc.Register(ctx, profile("Bruno", "bruno@example.com"))
	require.NoError(t, err)
	second, err := svc.Register(ctx, profile("Carla", "carla@example.com"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Entity.ID)
	assert.Equal(t, int64(2), second.Entity.ID)
	assert.Equal(t, registered, first.Entity.RegisteredAt)
}

func TestRegister_RejectsDuplicateEmailIgnoringCase(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, profile("Bruno", "bruno@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, profile("Bruno Two", "BRUNO@example.com"))
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_InvalidProfileIsInvalidInput(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.Register(context.Background(), profile("B", "bruno@example.com"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNameTooShort)
}

func TestUpdate_AllowsKeepingOwnEmail(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.Register(ctx, profile("Bruno", "bruno@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, profile("Carla", "carla@example.com"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Entity.ID, profile("Bruno Lima", "Bruno@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Bruno Lima", updated.Entity.Name)

	_, err = svc.Update(ctx, created.Entity.ID, profile("Bruno Lima", "carla@example.com"))
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestListAndSearch_SortByName(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()
	for _, p := range []domain.Profile{
		profile("zelia", "z@example.com"),
		profile("Amanda", "a@example.com"),
		profile("mariana", "m@example.com"),
	} {
		_, err := svc.Register(ctx, p)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Amanda", list[0].Entity.Name)
	assert.Equal(t, "mariana", list[1].Entity.Name)

	found, err := svc.SearchByName(ctx, "ANA")
	require.NoError(t, err)
	require.Len(t, found, 2)

	byEmail, err := svc.FindByEmail(ctx, "M@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "mariana", byEmail.Entity.Name)

	_, err = svc.FindByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_RefusedWhileClientHasOrders(t *testing.T) {
	refs := fakeOrderReferences{}
	svc := NewService(memory.NewRepository(), WithOrderReferences(refs))
	ctx := context.Background()

	created, err := svc.Register(ctx, profile("Bruno", "bruno@example.com"))
	require.NoError(t, err)
	refs[created.Entity.ID] = 2

	err = svc.Delete(ctx, created.Entity.ID)
	require.ErrorIs(t, err, ErrInUse)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, ports.Statistics{Total: 1, WithOrders: 1, WithoutOrders: 0}, *stats)

	refs[created.Entity.ID] = 0
	require.NoError(t, svc.Delete(ctx, created.Entity.ID))
	_, err = svc.GetByID(ctx, created.Entity.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
