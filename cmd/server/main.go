// Command server exposes the game engines over HTTP JSON endpoints: chest
// openings, crafting, duels, raids, the shop, and catalog editing.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xtding233/cardgame-backend/internal/battle"
	"github.com/xtding233/cardgame-backend/internal/card"
	"github.com/xtding233/cardgame-backend/internal/chest"
	"github.com/xtding233/cardgame-backend/internal/content"
	"github.com/xtding233/cardgame-backend/internal/craft"
	gameerrors "github.com/xtding233/cardgame-backend/internal/errors"
	"github.com/xtding233/cardgame-backend/internal/ledger"
	"github.com/xtding233/cardgame-backend/internal/raid"
	"github.com/xtding233/cardgame-backend/internal/rng"
	"github.com/xtding233/cardgame-backend/internal/shop"
	"github.com/xtding233/cardgame-backend/internal/store"
	"github.com/xtding233/cardgame-backend/internal/store/sqlite"
)

type config struct {
	Addr           string        `env:"ADDR" envDefault:":8080"`
	DBPath         string        `env:"DB_PATH" envDefault:"cardgame.db"`
	ContentFile    string        `env:"CONTENT_FILE"`
	ReloadInterval time.Duration `env:"CONTENT_RELOAD_INTERVAL" envDefault:"10s"`
}

// server holds the engines and serializes game actions with one lock, the
// same way a single browser session would.
type server struct {
	log *slog.Logger

	mu      sync.Mutex
	store   store.Store
	content content.Content
	catalog []card.Card
	ledger  *ledger.Service
	chests  *chest.Resolver
	shop    *shop.Service
	battle  *battle.Battle
	raid    *raid.Raid
	rng     rng.Source
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("parse config", "err", err)
		os.Exit(1)
	}

	cnt, err := content.Load(cfg.ContentFile)
	if err != nil {
		logger.Error("load content", "err", err)
		os.Exit(1)
	}

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	led := ledger.NewService(st)
	if err := seed(ctx, st, led, cnt); err != nil {
		logger.Error("seed store", "err", err)
		os.Exit(1)
	}
	if err := led.Load(ctx); err != nil {
		logger.Error("load ledger", "err", err)
		os.Exit(1)
	}
	catalog, err := st.ListCards(ctx)
	if err != nil {
		logger.Error("load catalog", "err", err)
		os.Exit(1)
	}

	src := rng.Default()
	s := &server{
		log:     logger,
		store:   st,
		content: cnt,
		catalog: catalog,
		ledger:  led,
		chests:  chest.NewResolver(src),
		shop:    shop.NewService(led, cnt.Packs, cnt.Listings),
		battle:  battle.New(src),
		rng:     src,
	}

	if cfg.ContentFile != "" {
		watcher := content.NewFileWatcher(cfg.ContentFile, cfg.ReloadInterval, func(path string) {
			reloaded, err := content.Load(path)
			if err != nil {
				logger.Warn("content reload rejected", "path", path, "err", err)
				return
			}
			s.mu.Lock()
			s.content = reloaded
			s.mu.Unlock()
			logger.Info("content reloaded", "path", path)
		})
		watcher.Start()
		defer watcher.Stop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /catalog/tags", s.handleCatalogTags)
	mux.HandleFunc("POST /catalog/cards", s.handleUpsertCard)
	mux.HandleFunc("DELETE /catalog/cards", s.handleDeleteCard)

	mux.HandleFunc("GET /collection", s.handleCollection)
	mux.HandleFunc("GET /balances", s.handleBalances)

	mux.HandleFunc("GET /chests", s.handleChests)
	mux.HandleFunc("POST /chests/open", s.handleOpenChest)
	mux.HandleFunc("POST /craft", s.handleCraft)

	mux.HandleFunc("GET /battle", s.handleBattleState)
	mux.HandleFunc("POST /battle/select", s.handleBattleSelect)
	mux.HandleFunc("POST /battle/start", s.handleBattleStart)
	mux.HandleFunc("POST /battle/play", s.handleBattlePlay)
	mux.HandleFunc("POST /battle/opponent", s.handleBattleOpponent)
	mux.HandleFunc("POST /battle/reset", s.handleBattleReset)

	mux.HandleFunc("GET /districts", s.handleDistricts)
	mux.HandleFunc("GET /raid", s.handleRaidState)
	mux.HandleFunc("POST /raid/start", s.handleRaidStart)
	mux.HandleFunc("POST /raid/attack", s.handleRaidAttack)
	mux.HandleFunc("POST /raid/end", s.handleRaidEnd)
	mux.HandleFunc("POST /cooldowns/clear", s.handleClearCooldown)

	mux.HandleFunc("GET /shop/packs", s.handlePacks)
	mux.HandleFunc("POST /shop/packs/buy", s.handleBuyPack)
	mux.HandleFunc("GET /shop/listings", s.handleListings)
	mux.HandleFunc("POST /shop/listings/buy", s.handleBuyListing)
	mux.HandleFunc("POST /shop/sell", s.handleSell)

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// seed pushes the content catalog into an empty store and grants the starter
// balances and cards on first run.
func seed(ctx context.Context, st store.Store, led *ledger.Service, cnt content.Content) error {
	existing, err := st.ListCards(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, c := range cnt.Catalog {
			if err := st.UpsertCard(ctx, c); err != nil {
				return err
			}
		}
	}

	balances, err := st.Balances(ctx)
	if err != nil {
		return err
	}
	if len(balances) > 0 {
		return nil
	}
	if err := st.SetBalances(ctx, map[string]int{
		string(ledger.Eddies): cnt.Starter.Eddies,
		string(ledger.Gems):   cnt.Starter.Gems,
	}); err != nil {
		return err
	}

	var grant []card.Card
	for _, id := range cnt.Starter.CardIDs {
		if c, ok := card.ByID(cnt.Catalog, id); ok {
			grant = append(grant, c)
		}
	}
	if err := led.Load(ctx); err != nil {
		return err
	}
	_, err = led.Grant(ctx, grant)
	return err
}

// --- responses ---

type errResp struct {
	Err  string          `json:"err"`
	Code gameerrors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) writeErr(w http.ResponseWriter, err error) {
	if gameerrors.IsRejection(err) {
		writeJSON(w, http.StatusConflict, errResp{Err: err.Error(), Code: gameerrors.CodeOf(err)})
		return
	}
	s.log.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errResp{Err: err.Error()})
}

// --- catalog and collection ---

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	catalog := append([]card.Card(nil), s.catalog...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, catalog)
}

func (s *server) handleCatalogTags(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tags := card.DistinctTags(s.catalog)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, tags)
}

func (s *server) handleUpsertCard(w http.ResponseWriter, r *http.Request) {
	var c card.Card
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid card payload"})
		return
	}
	if err := c.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.UpsertCard(r.Context(), c); err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.refreshCatalogLocked(r.Context()); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCard removes a catalog card and every owned instance of it.
func (s *server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing or invalid param id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteCard(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errResp{Err: "card not found"})
			return
		}
		s.writeErr(w, err)
		return
	}
	if err := s.ledger.RemoveByCardID(r.Context(), id); err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.refreshCatalogLocked(r.Context()); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) refreshCatalogLocked(ctx context.Context) error {
	catalog, err := s.store.ListCards(ctx)
	if err != nil {
		return err
	}
	s.catalog = catalog
	return nil
}

func (s *server) handleCollection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Owned())
}

func (s *server) handleBalances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Balances())
}

// --- chests and crafting ---

func (s *server) handleChests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	chests := append([]chest.Chest(nil), s.content.Chests...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, chests)
}

type openChestResp struct {
	Cards    []card.PlayerCard      `json:"cards"`
	Balances map[ledger.Currency]int `json:"balances"`
}

func (s *server) handleOpenChest(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.content.Chest(id)
	if !ok {
		s.writeErr(w, gameerrors.E(gameerrors.CodeInvalidChest, "unknown chest %q", id))
		return
	}
	if err := s.ledger.Spend(r.Context(), ch.Currency, ch.Cost); err != nil {
		s.writeErr(w, err)
		return
	}
	drops, err := s.chests.Open(ch, s.catalog)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	minted, err := s.ledger.Grant(r.Context(), drops)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info("chest opened", "chest", ch.ID, "cards", len(minted))
	writeJSON(w, http.StatusOK, openChestResp{Cards: minted, Balances: s.ledger.Balances()})
}

type craftResp struct {
	Consumed []string        `json:"consumed"`
	Created  card.PlayerCard `json:"created"`
}

func (s *server) handleCraft(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.Atoi(r.URL.Query().Get("card_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing or invalid param card_id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := craft.Resolve(cardID, s.ledger.Owned(), s.catalog, s.rng)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if err := s.ledger.Remove(r.Context(), res.Consumed); err != nil {
		s.writeErr(w, err)
		return
	}
	minted, err := s.ledger.Grant(r.Context(), []card.Card{res.Created})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.log.Info("card crafted", "consumed", cardID, "created", res.Created.ID)
	writeJSON(w, http.StatusOK, craftResp{Consumed: res.Consumed, Created: minted[0]})
}

// --- battle ---

type battleStateResp struct {
	Status       battle.Status     `json:"status"`
	Turn         battle.Turn       `json:"turn"`
	PlayerHP     int               `json:"player_hp"`
	OpponentHP   int               `json:"opponent_hp"`
	PlayerHand   []card.PlayerCard `json:"player_hand"`
	OpponentHand []card.Card       `json:"opponent_hand"`
	Reward       int               `json:"reward,omitempty"`
	Log          []string          `json:"log"`
}

func (s *server) battleStateLocked() battleStateResp {
	return battleStateResp{
		Status:       s.battle.Status(),
		Turn:         s.battle.Turn(),
		PlayerHP:     s.battle.PlayerHP(),
		OpponentHP:   s.battle.OpponentHP(),
		PlayerHand:   s.battle.PlayerHand(),
		OpponentHand: s.battle.OpponentHand(),
		Reward:       s.battle.Reward(),
		Log:          s.battle.Log(),
	}
}

func (s *server) handleBattleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.battleStateLocked())
}

type battleSelectResp struct {
	Selectable []card.PlayerCard `json:"selectable"`
}

func (s *server) handleBattleSelect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.battle.BeginDeckSelection(); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, battleSelectResp{Selectable: battle.SelectableDeck(s.ledger.Owned())})
}

type battleStartReq struct {
	InstanceIDs []string `json:"instance_ids"`
}

func (s *server) handleBattleStart(w http.ResponseWriter, r *http.Request) {
	var req battleStartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byInstance := make(map[string]card.PlayerCard)
	for _, pc := range s.ledger.Owned() {
		byInstance[pc.InstanceID] = pc
	}
	deck := make([]card.PlayerCard, 0, len(req.InstanceIDs))
	for _, iid := range req.InstanceIDs {
		pc, ok := byInstance[iid]
		if !ok {
			s.writeErr(w, gameerrors.E(gameerrors.CodeCardNotOwned, "instance %s is not in your collection", iid))
			return
		}
		deck = append(deck, pc)
	}

	if err := s.battle.Start(deck, s.catalog); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.battleStateLocked())
}

func (s *server) handleBattlePlay(w http.ResponseWriter, r *http.Request) {
	iid := r.URL.Query().Get("instance_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.battle.PlayCard(iid); err != nil {
		s.writeErr(w, err)
		return
	}
	if s.battle.Status() == battle.StatusVictory {
		if err := s.ledger.Credit(r.Context(), ledger.Eddies, s.battle.Reward()); err != nil {
			s.writeErr(w, err)
			return
		}
		s.log.Info("duel won", "reward", s.battle.Reward())
	}
	writeJSON(w, http.StatusOK, s.battleStateLocked())
}

func (s *server) handleBattleOpponent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.battle.PlayOpponent(); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.battleStateLocked())
}

func (s *server) handleBattleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battle.Reset()
	writeJSON(w, http.StatusOK, s.battleStateLocked())
}

// --- raid ---

type districtResp struct {
	raid.District
	Unlocked bool `json:"unlocked"`
	Kills    int  `json:"kills"`
}

func (s *server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	progress, err := s.ledger.DistrictProgress(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]districtResp, 0, len(s.content.Districts))
	for _, d := range s.content.Districts {
		out = append(out, districtResp{
			District: d,
			Unlocked: progress.Unlocked(d),
			Kills:    progress[d.ID],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type raidStateResp struct {
	Active   bool          `json:"active"`
	District string        `json:"district,omitempty"`
	Enemy    *raid.Enemy   `json:"enemy,omitempty"`
	Team     []raid.Member `json:"team,omitempty"`
	Kills    int           `json:"kills"`
	Earnings int           `json:"earnings"`
	Log      []string      `json:"log,omitempty"`
}

func (s *server) raidStateLocked() raidStateResp {
	if s.raid == nil {
		return raidStateResp{}
	}
	enemy := s.raid.Enemy()
	return raidStateResp{
		Active:   s.raid.Active(),
		District: s.raid.District().ID,
		Enemy:    &enemy,
		Team:     s.raid.Team(),
		Kills:    s.raid.Kills(),
		Earnings: s.raid.Earnings(),
		Log:      s.raid.Log(),
	}
}

func (s *server) handleRaidState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.raidStateLocked())
}

type raidStartReq struct {
	DistrictID  string   `json:"district_id"`
	InstanceIDs []string `json:"instance_ids"`
}

func (s *server) handleRaidStart(w http.ResponseWriter, r *http.Request) {
	var req raidStartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid request body"})
		return
	}

	progress, err := s.ledger.DistrictProgress(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	cooldowns, err := s.ledger.Cooldowns(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raid != nil && s.raid.Active() {
		s.writeErr(w, gameerrors.E(gameerrors.CodeInvalidTeam, "a raid is already running"))
		return
	}
	d, ok := s.content.District(req.DistrictID)
	if !ok {
		s.writeErr(w, gameerrors.E(gameerrors.CodeUnknownDistrict, "unknown district %q", req.DistrictID))
		return
	}

	byInstance := make(map[string]card.PlayerCard)
	for _, pc := range s.ledger.Owned() {
		byInstance[pc.InstanceID] = pc
	}
	team := make([]card.PlayerCard, 0, len(req.InstanceIDs))
	for _, iid := range req.InstanceIDs {
		pc, ok := byInstance[iid]
		if !ok {
			s.writeErr(w, gameerrors.E(gameerrors.CodeCardNotOwned, "instance %s is not in your collection", iid))
			return
		}
		team = append(team, pc)
	}

	ra, err := raid.Start(d, team, s.catalog, progress, cooldowns, time.Now(), s.rng)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.raid = ra
	s.log.Info("raid started", "district", d.ID, "team", len(team))
	writeJSON(w, http.StatusOK, s.raidStateLocked())
}

func (s *server) handleRaidAttack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raid == nil {
		s.writeErr(w, gameerrors.E(gameerrors.CodeRaidOver, "no raid is running"))
		return
	}
	if err := s.raid.Attack(); err != nil {
		s.writeErr(w, err)
		return
	}
	// every member stunned ends the raid on its own
	if !s.raid.Active() {
		if err := s.commitRaidLocked(r.Context()); err != nil {
			s.writeErr(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.raidStateLocked())
}

func (s *server) handleRaidEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raid == nil || !s.raid.Active() {
		s.writeErr(w, gameerrors.E(gameerrors.CodeRaidOver, "no raid is running"))
		return
	}
	s.raid.End()
	if err := s.commitRaidLocked(r.Context()); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.raidStateLocked())
}

func (s *server) commitRaidLocked(ctx context.Context) error {
	sum := s.raid.Summary()
	if err := s.ledger.CommitRaid(ctx, sum, time.Now()); err != nil {
		return err
	}
	s.log.Info("raid committed",
		"district", sum.DistrictID, "kills", sum.Kills,
		"earnings", sum.Earnings, "stunned", len(sum.Stunned))
	return nil
}

func (s *server) handleClearCooldown(w http.ResponseWriter, r *http.Request) {
	iid := r.URL.Query().Get("instance_id")
	if iid == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing param instance_id"})
		return
	}
	if err := s.ledger.ClearCooldown(r.Context(), iid, time.Now()); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Balances())
}

// --- shop ---

func (s *server) handlePacks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Packs())
}

func (s *server) handleBuyPack(w http.ResponseWriter, r *http.Request) {
	if err := s.shop.BuyPack(r.Context(), r.URL.Query().Get("id")); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Balances())
}

func (s *server) handleListings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Listings())
}

func (s *server) handleBuyListing(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	catalog := append([]card.Card(nil), s.catalog...)
	s.mu.Unlock()

	bought, err := s.shop.BuyListing(r.Context(), r.URL.Query().Get("id"), catalog)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bought)
}

type sellReq struct {
	InstanceID string `json:"instance_id"`
	Price      int    `json:"price"`
}

type sellResp struct {
	Net      int                     `json:"net"`
	Balances map[ledger.Currency]int `json:"balances"`
}

func (s *server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid request body"})
		return
	}
	net, err := s.shop.Sell(r.Context(), req.InstanceID, req.Price)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sellResp{Net: net, Balances: s.ledger.Balances()})
}
