package cashregister

import (
	"context"
	"sync"
	"time"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/pkg/logger"
)

// Sweeper ferme automatiquement les caisses principales restées ouvertes
// après minuit. Chaque caisse est traitée indépendamment: l'échec de l'une
// n'empêche pas la fermeture des autres.
type Sweeper struct {
	svc      *Service
	log      *logger.Logger
	interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSweeper construit le balayeur. interval est le délai entre deux
// vérifications.
func NewSweeper(svc *Service, log *logger.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		svc:      svc,
		log:      log.With("component", "cash-sweeper"),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start lance la goroutine de balayage.
func (sw *Sweeper) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.ticker = time.NewTicker(sw.interval)
	sw.wg.Add(1)
	go sw.run()
	sw.log.Info().Dur("interval", sw.interval).Msg("balayage des caisses démarré")
}

// Stop arrête la goroutine et attend sa fin.
func (sw *Sweeper) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.ticker != nil {
		sw.ticker.Stop()
		close(sw.stop)
		sw.wg.Wait()
		sw.log.Info().Msg("balayage des caisses arrêté")
	}
}

func (sw *Sweeper) run() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.ticker.C:
			sw.Sweep(time.Now())
		case <-sw.stop:
			return
		}
	}
}

// Sweep ferme les caisses principales ouvertes dont la date d'ouverture est
// antérieure au jour courant (minuit passé). Les sous-caisses ouvertes sont
// fermées d'abord pour respecter la contrainte de hiérarchie.
func (sw *Sweeper) Sweep(now time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	mains, err := sw.svc.registerRepo.ListOpenMains()
	if err != nil {
		sw.log.Error().Err(err).Msg("lecture des caisses ouvertes échouée")
		return
	}

	for _, main := range mains {
		if main.OpeningDate == nil || !main.OpeningDate.Before(midnight) {
			continue
		}
		sw.closeTree(main)
	}
}

// closeTree ferme les sous-caisses ouvertes d'une principale puis la
// principale elle-même. Chaque échec est journalisé sans bloquer la suite.
func (sw *Sweeper) closeTree(main *entity.CashRegister) {
	ctx := context.Background()

	subs, err := sw.svc.registerRepo.ListSubRegisters(main.ID)
	if err != nil {
		sw.log.Error().Err(err).Str("register", main.Code).Msg("lecture des sous-caisses échouée")
		return
	}
	for _, sub := range subs {
		if sub.State != entity.RegisterOpened {
			continue
		}
		if _, err := sw.svc.Close(ctx, sub.ID, "system"); err != nil {
			sw.log.Error().Err(err).Str("register", sub.Code).Msg("fermeture automatique de la sous-caisse échouée")
			// la principale restera ouverte, elle sera retentée au prochain tour
			return
		}
		sw.log.Info().Str("register", sub.Code).Msg("sous-caisse fermée automatiquement")
	}

	if _, err := sw.svc.Close(ctx, main.ID, "system"); err != nil {
		sw.log.Error().Err(err).Str("register", main.Code).Msg("fermeture automatique de la caisse principale échouée")
		return
	}
	sw.log.Info().Str("register", main.Code).Msg("caisse principale fermée automatiquement")
}
