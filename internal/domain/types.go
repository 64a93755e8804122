package domain

// GameID — идентификатор игры в пределах одного издателя.
type GameID uint16

// TagID — идентификатор тега из каталога тегов.
type TagID uint16

// Границы полей. Все входные данные ограничены по размеру,
// сверх лимита запись не принимается.
const (
	// MaxNameLen — максимальная длина имени игры или издателя в байтах.
	MaxNameLen = 125
	// MaxURLLen — максимальная длина URL издателя в байтах.
	MaxURLLen = 125
	// MaxTagLen — максимальная длина текста тега в байтах.
	MaxTagLen = 20
	// MaxTagsPerGame — максимальное количество тегов у одной игры.
	MaxTagsPerGame = 5
)

// HoldReasonGamePayment — причина блокировки средств покупателя между
// размещением заказа и его исполнением.
const HoldReasonGamePayment = "game_payment"
