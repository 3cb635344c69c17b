package dao

import (
	"consegne/model"

	"github.com/dchest/uniuri"
)

type ShipmentDao interface {
	//Create assigns an opaque id to the shipment, persists it and returns the id
	Create(s *model.Shipment) (string, error)
	//GetOneById returns shipment by id
	GetOneById(id string) (model.Shipment, error)
	//GetAll returns all shipments
	GetAll() ([]model.Shipment, error)
	//GetAllByDriver returns all shipments assigned to the given driver
	GetAllByDriver(driverId string) ([]model.Shipment, error)
	//Update overwrites the stored shipment with the same id
	Update(s model.Shipment) error
	//Delete removes a shipment; administrative action only
	Delete(id string) error
}

func NewShipmentDao(db Db) ShipmentDao {
	return &shipmentDao{db: db}
}

type shipmentDao struct {
	db Db
}

func (d shipmentDao) Create(s *model.Shipment) (string, error) {
	s.Id = uniuri.NewLen(16)
	err := d.db.Save(s)
	return s.Id, err
}

func (d shipmentDao) GetOneById(id string) (shipment model.Shipment, err error) {
	err = d.db.One("Id", id, &shipment)
	return
}

func (d shipmentDao) GetAll() (shipments []model.Shipment, err error) {
	err = d.db.All(&shipments)
	if err == nil && shipments == nil {
		shipments = []model.Shipment{}
	}
	return
}

func (d shipmentDao) GetAllByDriver(driverId string) ([]model.Shipment, error) {
	//driver lives in a nested reference, filter in memory
	all, err := d.GetAll()
	if err != nil {
		return nil, err
	}
	assigned := []model.Shipment{}
	for _, s := range all {
		if s.Driver != nil && s.Driver.Id == driverId {
			assigned = append(assigned, s)
		}
	}
	return assigned, nil
}

func (d shipmentDao) Update(s model.Shipment) error {
	return d.db.Save(&s)
}

func (d shipmentDao) Delete(id string) error {
	shipment, err := d.GetOneById(id)
	if err != nil {
		return err
	}
	return d.db.DeleteStruct(&shipment)
}
