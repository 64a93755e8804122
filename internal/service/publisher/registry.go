package publisher

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// Registry регистрирует издателей и отвечает на вопрос, действителен ли
// издатель для публикации игр. Регистрация однократная: повторная попытка
// занять тот же идентификатор возвращает ErrPublisherAlreadyExists.
type Registry struct {
	repo   domain.PublisherRepository
	outbox domain.OutboxRepository
	logger *logrus.Logger
}

// NewRegistry создаёт реестр издателей.
func NewRegistry(repo domain.PublisherRepository, outbox domain.OutboxRepository, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{repo: repo, outbox: outbox, logger: logger}
}

// publisherAddedPayload — тело события publisher.added.
type publisherAddedPayload struct {
	PublisherID string `json:"publisher_id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
}

// Register проверяет детали и сохраняет нового издателя.
func (r *Registry) Register(publisherID string, details domain.PublisherDetails) error {
	if publisherID == "" {
		return domain.ErrPublisherDetailsInvalid
	}
	if err := details.Validate(); err != nil {
		return err
	}

	if err := r.repo.Create(publisherID, details); err != nil {
		return err
	}

	r.enqueuePublisherAdded(publisherID, details)

	r.logger.WithFields(logrus.Fields{
		"publisher_id": publisherID,
		"name":         details.Name,
	}).Info("publisher registered")
	return nil
}

// Get возвращает детали издателя.
func (r *Registry) Get(publisherID string) (domain.PublisherDetails, error) {
	return r.repo.Get(publisherID)
}

// IsValidPublisher сообщает, зарегистрирован ли издатель. Ошибка хранилища
// трактуется как «не зарегистрирован»: публикация игры лучше пусть упадёт
// с InvalidPublisher, чем пройдёт мимо проверки.
func (r *Registry) IsValidPublisher(publisherID string) bool {
	exists, err := r.repo.Exists(publisherID)
	if err != nil {
		r.logger.WithError(err).WithField("publisher_id", publisherID).
			Warn("publisher existence check failed")
		return false
	}
	return exists
}

func (r *Registry) enqueuePublisherAdded(publisherID string, details domain.PublisherDetails) {
	if r.outbox == nil {
		return
	}
	payload, err := json.Marshal(publisherAddedPayload{
		PublisherID: publisherID,
		Name:        details.Name,
		URL:         details.URL,
	})
	if err != nil {
		r.logger.WithError(err).Error("marshal publisher.added payload")
		return
	}
	if _, err := r.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "publisher",
		AggregateID:   publisherID,
		EventType:     "publisher.added",
		Payload:       payload,
	}); err != nil {
		// Издатель уже сохранён; теряется только доставка события.
		r.logger.WithError(err).WithField("publisher_id", publisherID).
			Error("enqueue publisher.added failed")
	}
}

var _ domain.PublisherRegistry = (*Registry)(nil)
