package models

// Publisher — справочная запись издателя.
type Publisher struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}
