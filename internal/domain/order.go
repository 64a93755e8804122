package domain

// PendingOrder — незакрытый заказ между одним покупателем и одной игрой.
// Заказ материализуется двумя зеркальными записями: (publisher, game) -> buyer
// и (buyer, publisher, game) -> deposit. Записи создаются и удаляются только
// вместе; состояние «одна есть, другой нет» снаружи не наблюдаемо.
type PendingOrder struct {
	BuyerID     string
	PublisherID string
	GameID      GameID
	// DepositMinor — цена листинга на момент размещения заказа.
	// Заблокирована на счёте покупателя до исполнения.
	DepositMinor int64
}

// Key возвращает ключ листинга, к которому относится заказ.
func (o PendingOrder) Key() GameKey {
	return GameKey{PublisherID: o.PublisherID, GameID: o.GameID}
}
