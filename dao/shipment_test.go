package dao

import (
	"testing"
	"time"

	"consegne/model"

	"github.com/stretchr/testify/require"
)

const (
	COMPANY   = "Acme Corp"
	ADDRESS   = "Via Roma 1"
	DRIVER_ID = "drv-1"
)

func newShipment() *model.Shipment {
	return &model.Shipment{
		Company:       COMPANY,
		Address:       ADDRESS,
		RequestedAt:   time.Now(),
		Type:          model.TypeDelivery,
		Status:        model.StatusPending,
		NeedsPlanning: true,
		Requester:     model.UserRef{Id: "req-1", Name: "Requester"},
	}
}

func TestShipmentDao_Create(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	id, err := shipmentDao.Create(newShipment())

	require.NoError(t, err)
	require.Len(t, id, 16)
}

func TestShipmentDao_GetOneById(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	id, err := shipmentDao.Create(newShipment())
	require.NoError(t, err)

	shipment, err := shipmentDao.GetOneById(id)

	require.NoError(t, err)
	require.Equal(t, id, shipment.Id)
	require.Equal(t, COMPANY, shipment.Company)
	require.Equal(t, model.StatusPending, shipment.Status)
	require.True(t, shipment.NeedsPlanning)
}

func TestShipmentDao_GetAll(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	all, err := shipmentDao.GetAll()
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = shipmentDao.Create(newShipment())
	require.NoError(t, err)
	_, err = shipmentDao.Create(newShipment())
	require.NoError(t, err)

	all, err = shipmentDao.GetAll()

	require.NoError(t, err)
	require.Equal(t, 2, len(all))
}

func TestShipmentDao_GetAllByDriver(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	assigned := newShipment()
	assigned.Driver = &model.UserRef{Id: DRIVER_ID, Name: "Driver"}
	_, err := shipmentDao.Create(assigned)
	require.NoError(t, err)
	_, err = shipmentDao.Create(newShipment())
	require.NoError(t, err)

	mine, err := shipmentDao.GetAllByDriver(DRIVER_ID)

	require.NoError(t, err)
	require.Equal(t, 1, len(mine))
	require.Equal(t, DRIVER_ID, mine[0].Driver.Id)

	none, err := shipmentDao.GetAllByDriver("drv-unknown")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestShipmentDao_Update(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	id, err := shipmentDao.Create(newShipment())
	require.NoError(t, err)

	shipment, err := shipmentDao.GetOneById(id)
	require.NoError(t, err)
	shipment.Status = model.StatusOutForDelivery
	//the update must also be able to clear fields back to their zero value
	shipment.NeedsPlanning = false

	err = shipmentDao.Update(shipment)
	require.NoError(t, err)

	stored, err := shipmentDao.GetOneById(id)
	require.NoError(t, err)
	require.Equal(t, model.StatusOutForDelivery, stored.Status)
	require.False(t, stored.NeedsPlanning)
}

func TestShipmentDao_Delete(t *testing.T) {
	db, cleanup := createDB(t)
	defer cleanup()
	shipmentDao := NewShipmentDao(db)

	id, err := shipmentDao.Create(newShipment())
	require.NoError(t, err)

	err = shipmentDao.Delete(id)
	require.NoError(t, err)

	_, err = shipmentDao.GetOneById(id)
	require.Error(t, err)

	err = shipmentDao.Delete("missing")
	require.Error(t, err)
}
