package domain

// GameDetails агрегирует метаданные опубликованной игры.
// Листинг неизменяем: после публикации нет ни обновления, ни удаления.
type GameDetails struct {
	// Name — отображаемое имя игры, непустое и не длиннее MaxNameLen.
	Name string
	// Tags — набор идентификаторов тегов из каталога.
	Tags []TagID
	// PriceMinor — цена в минимальных денежных единицах.
	PriceMinor int64
}

// Validate проверяет детали игры перед публикацией. Любое нарушение
// (пустое имя, лишние теги, неизвестный тег, отрицательная цена)
// схлопывается в ErrGameDetailsInvalid.
func (d GameDetails) Validate(validTag func(TagID) bool) error {
	if d.Name == "" || len(d.Name) > MaxNameLen {
		return ErrGameDetailsInvalid
	}
	if len(d.Tags) > MaxTagsPerGame {
		return ErrGameDetailsInvalid
	}
	if d.PriceMinor < 0 {
		return ErrGameDetailsInvalid
	}
	for _, tag := range d.Tags {
		if !validTag(tag) {
			return ErrGameDetailsInvalid
		}
	}
	return nil
}

// GameKey — составной ключ листинга: издатель + игра.
type GameKey struct {
	PublisherID string
	GameID      GameID
}
