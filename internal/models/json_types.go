package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// PartTally: parça adı -> adet eşlemesi, JSON kolonu olarak saklanır.
// Siparişin kümülatif üretim çıkış sayacı (productionParts) bu tiptedir.
type PartTally map[string]int

func (t PartTally) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *PartTally) Scan(value any) error {
	if value == nil {
		*t = PartTally{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("PartTally: beklenmeyen kolon tipi")
	}
	if len(raw) == 0 {
		*t = PartTally{}
		return nil
	}
	return json.Unmarshal(raw, t)
}

// PartPick: Kısmi kabulde seçilen tek kalemin anlık görüntüsü.
type PartPick struct {
	PartName string `json:"part_name"`
	Quantity int    `json:"quantity"`
}

// PartSnapshot: Kısmi kabul anında ayrılan kalemlerin listesi, JSON kolonu.
type PartSnapshot []PartPick

func (s PartSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *PartSnapshot) Scan(value any) error {
	if value == nil {
		*s = PartSnapshot{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("PartSnapshot: beklenmeyen kolon tipi")
	}
	if len(raw) == 0 {
		*s = PartSnapshot{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// OrderItem: Sipariş kalemi (ad + adet).
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderItems: Sipariş kalem listesi, JSON kolonu. Eski kayıtlar tek
// chairModel/quantity çiftiyle gelir; bu liste boş kalabilir.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OrderItems) Scan(value any) error {
	if value == nil {
		*o = OrderItems{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("OrderItems: beklenmeyen kolon tipi")
	}
	if len(raw) == 0 {
		*o = OrderItems{}
		return nil
	}
	return json.Unmarshal(raw, o)
}
