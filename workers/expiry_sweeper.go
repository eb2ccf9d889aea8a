package workers

import (
	"log"
	"time"

	"infracheck/models"

	"github.com/jinzhu/gorm"
)

// StartExpirySweeper starts a loop that deletes expired recovery codes and
// session tokens on a schedule. A limpeza do caminho de request é lazy
// (primeiro acesso após expirar); este worker cobre o que nunca mais é lido.
func StartExpirySweeper(db *gorm.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			sweepOnce(db)
		}
	}()
}

func sweepOnce(db *gorm.DB) {
	if n, err := models.SweepExpiredRecoveryCodes(db); err != nil {
		log.Printf("sweeper: erro ao limpar códigos: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: %d códigos de recuperação expirados removidos", n)
	}

	if n, err := models.SweepExpiredSessionTokens(db); err != nil {
		log.Printf("sweeper: erro ao limpar tokens: %v", err)
	} else if n > 0 {
		log.Printf("sweeper: %d tokens de sessão expirados removidos", n)
	}
}
