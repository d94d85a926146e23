package memstore

import "context"

type txKey struct{}

// TxManager выполняет транзакции по одной и восстанавливает прежнее
// состояние, если fn вернул ошибку
type TxManager struct {
	s *Store
}

// TxManager возвращает transaction manager хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.state.clone()
	m.s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			m.restore(snapshot)
			panic(p)
		}
		if err != nil {
			m.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *TxManager) restore(snapshot state) {
	m.s.mu.Lock()
	m.s.state = snapshot
	m.s.mu.Unlock()
}
