package event

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/kernelsim/service/messaging"
	"github.com/viant/kernelsim/service/messaging/memory"
)

// Service routes typed events to typed listeners, and every event to the
// untyped listener.
type Service struct {
	publisher       *Publisher[any]
	listener        *Listener[any]
	typedPublishers map[reflect.Type]any
	typedListener   map[reflect.Type]any
	mux             *sync.RWMutex
	newQueueConfig  func(name string) memory.Config
	logger          logrus.FieldLogger
}

// SetListener registers the handler receiving every published event.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start()
}

func (s *Service) anyQueue() messaging.Queue[Event[any]] {
	s.mux.RLock()
	defer s.mux.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.publisher.queue
}

// Close stops every listener.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, listener := range s.typedListener {
		listener.(interface{ Stop() }).Stop()
		delete(s.typedListener, key)
	}
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
		newQueueConfig:  func(string) memory.Config { return memory.DefaultConfig() },
		logger:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.publisher = NewPublisher[any](QueueOf[Event[any]](ret, "any"))
	return ret
}

func QueueOf[T any](s *Service, name string) messaging.Queue[T] {
	return memory.NewQueue[T](s.newQueueConfig(name))
}

func keyOf[T any]() reflect.Type {
	rType := reflect.TypeOf((*T)(nil)).Elem()
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf registers the handler receiving events of type T.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	publisher := PublisherOf[T](s)
	s.mux.Lock()
	defer s.mux.Unlock()
	if prev, ok := s.typedListener[key]; ok {
		prev.(*Listener[T]).Stop()
	}
	listener := NewListener[T](publisher, handler, s.logger)
	s.typedListener[key] = listener
	listener.Start()
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](QueueOf[Event[T]](s, key.String()))
	publisher.mirror = s.anyQueue
	s.typedPublishers[key] = publisher
	return publisher
}
