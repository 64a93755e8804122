package domain

// PublisherDetails агрегирует данные зарегистрированного издателя.
type PublisherDetails struct {
	// Name — имя издателя, непустое и не длиннее MaxNameLen.
	Name string
	// URL — адрес сайта издателя, не длиннее MaxURLLen.
	URL string
}

// Validate проверяет детали издателя перед регистрацией.
func (d PublisherDetails) Validate() error {
	if d.Name == "" || len(d.Name) > MaxNameLen {
		return ErrPublisherDetailsInvalid
	}
	if len(d.URL) > MaxURLLen {
		return ErrPublisherDetailsInvalid
	}
	return nil
}
