package bot

import (
	"sync"

	"crmbot-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Состояние диалога - явный тип на каждый сценарий со своим набором
// накопленных полей. Никаких общих словарей.
type state interface{ isState() }

// openingShift: открытие смены, нал -> безнал.
type openingShift struct {
	awaitingBank bool
	cash         decimal.Decimal
}

// closingShift: закрытие смены, заявленный нал -> безнал.
type closingShift struct {
	awaitingBank bool
	reportedCash decimal.Decimal
}

type dealStep int

const (
	dealAwaitAmount dealStep = iota
	dealAwaitMethod
	dealAwaitComment
)

// recordingDeal: новая операция, сумма -> способ -> комментарий.
type recordingDeal struct {
	step   dealStep
	amount decimal.Decimal
	method models.PaymentMethod
}

type installmentStep int

const (
	instAwaitPrice installmentStep = iota
	instAwaitPercent
	instAwaitTerm
	instAwaitDownPayment
	instAwaitMethod
)

// recordingInstallment: оформление рассрочки.
type recordingInstallment struct {
	step        installmentStep
	price       decimal.Decimal
	percent     decimal.Decimal
	termMonths  int
	downPayment decimal.Decimal
}

// viewingDealDetails: ожидание ID операции из списка "Мои операции".
type viewingDealDetails struct{}

// Админские сценарии.
type adminAddingManager struct{}
type adminDisablingManager struct{}

type adjustStep int

const (
	adjustAwaitPhone adjustStep = iota
	adjustAwaitKind
	adjustAwaitDelta
)

// adminAdjusting: корректировка баланса, номер -> нал/безнал -> дельта.
type adminAdjusting struct {
	step        adjustStep
	workerPhone string
	method      models.PaymentMethod
}

type adminDeletingDeal struct{}
type adminReporting struct{}

func (openingShift) isState()          {}
func (closingShift) isState()          {}
func (recordingDeal) isState()         {}
func (recordingInstallment) isState()  {}
func (viewingDealDetails) isState()    {}
func (adminAddingManager) isState()    {}
func (adminDisablingManager) isState() {}
func (adminAdjusting) isState()        {}
func (adminDeletingDeal) isState()     {}
func (adminReporting) isState()        {}

// stateStore хранит состояния диалогов по отправителям. Сообщения
// одного отправителя обрабатываются последовательно, мьютекс закрывает
// гонку между разными отправителями.
type stateStore struct {
	mu     sync.Mutex
	states map[string]state
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]state)}
}

func (s *stateStore) get(sender string) state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[sender]
}

func (s *stateStore) set(sender string, st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sender] = st
}

func (s *stateStore) clear(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sender)
}
