package domain

import "errors"

var (
	// ErrInvalidPublisher — издатель не прошёл проверку в реестре издателей.
	ErrInvalidPublisher = errors.New("publisher is not registered")
	// ErrGameAlreadyExists — игра уже опубликована или уже куплена этим покупателем.
	// Повторная покупка намеренно отдаёт ту же ошибку, что и повторная публикация.
	ErrGameAlreadyExists = errors.New("game already exists")
	// ErrGameDetailsInvalid — детали игры не прошли валидацию (пустое имя,
	// неизвестный тег, превышение лимитов). Конкретная причина наружу не раскрывается.
	ErrGameDetailsInvalid = errors.New("game details are invalid")
	// ErrGameNotFound — игра не найдена в каталоге опубликованных.
	ErrGameNotFound = errors.New("game not found")
	// ErrOrderAlreadyPlaced — по этой игре уже есть незакрытый заказ.
	ErrOrderAlreadyPlaced = errors.New("order already placed")
	// ErrOrderNotFound — заказ не найден ни в одном из индексов.
	ErrOrderNotFound = errors.New("order not found")
	// ErrPublisherAlreadyExists — издатель уже зарегистрирован.
	ErrPublisherAlreadyExists = errors.New("publisher already exists")
	// ErrPublisherDetailsInvalid — детали издателя не прошли валидацию.
	ErrPublisherDetailsInvalid = errors.New("publisher details are invalid")
	// ErrFundsUnavailable — у счёта недостаточно свободных средств для блокировки.
	ErrFundsUnavailable = errors.New("funds unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsConflict проверяет, относится ли ошибка к конфликтам состояния
// (занятый ключ, повторная публикация, повторный заказ).
func IsConflict(err error) bool {
	return errors.Is(err, ErrGameAlreadyExists) ||
		errors.Is(err, ErrOrderAlreadyPlaced) ||
		errors.Is(err, ErrPublisherAlreadyExists)
}
