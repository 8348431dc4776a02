package model

// BatteryType bounds a drone's charge. Capacity and recharge rate are in
// minutes; recharge rate applies per minute spent in storage.
type BatteryType struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	CapacityMinutes int    `db:"capacity_minutes"`
	RechargeMinutes int    `db:"recharge_minutes"`
}
