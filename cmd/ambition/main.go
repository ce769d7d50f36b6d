// Command ambition runs the household simulation in an interactive terminal
// loop: one typed action per month until the game ends.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/ambition/internal/config"
	"github.com/talgya/ambition/internal/masterdata"
	"github.com/talgya/ambition/internal/parser"
	"github.com/talgya/ambition/internal/persistence"
	"github.com/talgya/ambition/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	fresh := flag.Bool("new", false, "ignore existing save data and start a new game")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	data, err := masterdata.Load(cfg.MasterData)
	if err != nil {
		fmt.Fprintln(os.Stderr, "master data:", err)
		os.Exit(1)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "save store:", err)
		os.Exit(1)
	}
	defer closeStore()

	pipeline := sim.NewPipeline(data, store)

	ctx := context.Background()
	if !*fresh && pipeline.HasSaveData() {
		if err := pipeline.LoadGame(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "load failed:", err)
			os.Exit(1)
		}
		fmt.Println("Save data loaded.")
	} else {
		ng := cfg.NewGame
		if err := pipeline.StartNewGame(ng.PlayerID, ng.WifeTypeID, ng.HouseID); err != nil {
			fmt.Fprintln(os.Stderr, "new game:", err)
			os.Exit(1)
		}
		fmt.Println("New game started.")
	}

	runLoop(ctx, pipeline, data)
}

func openStore(cfg *config.Config) (sim.SnapshotStore, func(), error) {
	if cfg.Save.Backend == "sqlite" {
		db, err := persistence.OpenSQLite(cfg.Save.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}
	return persistence.NewFileStore(cfg.Save.FilePath), func() {}, nil
}

func runLoop(ctx context.Context, pipeline *sim.Pipeline, data *masterdata.Provider) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Type an action name to spend the month, or: actions, status, meal <0-3>, save, quit")
	for {
		if pipeline.GameOver() {
			fmt.Println("\nThe game is over.")
			return
		}

		printReport(pipeline)
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "quit", "exit":
			return

		case "status":
			printStatus(pipeline)

		case "actions":
			printActions(data)

		case "save":
			if err := pipeline.SaveGame(ctx); err != nil {
				fmt.Println("save failed:", err)
			} else {
				fmt.Println("Saved.")
			}

		case "meal":
			if len(fields) < 2 {
				fmt.Println("usage: meal <0-3>")
				continue
			}
			rank, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: meal <0-3>")
				continue
			}
			pipeline.ChangeMealRank(rank)
			tierName := "unknown tier"
			if tier := data.FoodTierByRank(pipeline.Environment().MealRank()); tier != nil {
				tierName = tier.Name
			}
			fmt.Printf("Meals set to %s (%s yen/month).\n",
				tierName, humanize.Comma(int64(pipeline.Budget().FixedCost().FoodCost())))

		default:
			action, ok := parser.Match(line, data.Actions())
			if !ok {
				fmt.Println("No such action. Try 'actions' for the list.")
				continue
			}
			if pipeline.ExecuteAction(action) {
				fmt.Printf("%s resolved. A month passes.\n", action.Name)
				if ev := pipeline.CurrentEvent(); ev != nil {
					fmt.Printf("Event: %s — %s\n", ev.Name, ev.Description)
				}
			} else if pipeline.GameOver() {
				fmt.Println("\nThe game is over.")
				return
			} else {
				fmt.Println("Could not do that — check funds and your wife's health.")
			}
		}
	}
}

func printReport(p *sim.Pipeline) {
	cal := p.Calendar()
	fmt.Printf("\n── Year %d, Month %d (turn %d) ── savings %s yen ──\n",
		cal.Year, cal.Month, p.CurrentTurn(), humanize.Comma(p.Budget().CurrentSavings()))
}

func printStatus(p *sim.Pipeline) {
	h := p.Husband()
	w := p.Wife()
	env := p.Environment()
	fixed := p.Budget().FixedCost()
	rep := p.Reputation()

	fmt.Printf("%s (age %d): HP %d/%d  MP %d/%d  fatigue %d  love %d  ability %d  eval %d  salary %s\n",
		p.HusbandName(), h.Age(), h.Health(), sim.MaxHealth, h.Mental(), sim.MaxMental,
		h.Condition(), h.Love(), h.Ability(), h.TeamEvaluation(),
		humanize.Comma(int64(h.Salary())))
	fmt.Printf("Wife: HP %d/%d  cooking %d  care %d  PR %d  coach %d\n",
		w.Health(), w.MaxHealth(), w.CookingLevel(), w.CareLevel(), w.PRLevel(), w.CoachLevel())
	fmt.Printf("Home: house %d  bed L%d  gym L%d  meals L%d\n",
		env.HouseID(), env.BedLevel(), env.GymLevel(), env.MealRank())
	fmt.Printf("Monthly costs: rent %s + tax %s + insurance %s + upkeep %s + food %s = %s\n",
		humanize.Comma(int64(fixed.Rent())), humanize.Comma(int64(fixed.Tax())),
		humanize.Comma(int64(fixed.Insurance())), humanize.Comma(int64(fixed.Maintenance())),
		humanize.Comma(int64(fixed.FoodCost())), humanize.Comma(int64(fixed.TotalCost())))
	fmt.Printf("Reputation: love %d  team %d  public eye %d\n",
		rep.Love(), rep.TeamEvaluation(), rep.PublicEye())
}

func printActions(data *masterdata.Provider) {
	for _, a := range data.Actions() {
		cost := humanize.Comma(int64(a.CostMoney))
		fmt.Printf("  %-24s [%s] money %s", a.Name, a.Category().String(), cost)
		if a.CostWifeHealth > 0 {
			fmt.Printf("  wife HP %d", a.CostWifeHealth)
		}
		fmt.Println()
	}
}
