package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/app"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	"github.com/14kear/pollboard/internal/services/comments"
	"github.com/14kear/pollboard/internal/services/polls"
	"github.com/14kear/pollboard/internal/services/voting"
	"github.com/14kear/pollboard/internal/validation"
	"github.com/dustin/go-humanize"
)

const defaultWatchInterval = 10 * time.Second

type cli struct {
	app      *app.App
	out      io.Writer
	errOut   io.Writer
	email    string
	password string
}

// mount restores the session from the backend, or signs in when
// credentials were given.
func (c *cli) mount(ctx context.Context) error {
	if c.email == "" && c.password == "" {
		return c.app.Session.Bootstrap(ctx)
	}

	form := validation.SignIn{Email: c.email, Password: c.password}
	if err := form.Validate(); err != nil {
		return err
	}
	_, err := c.app.Session.Login(ctx, strings.TrimSpace(c.email), c.password)
	return err
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "whoami", "login":
		return c.whoami()
	case "logout":
		return c.logout(ctx)
	case "signup":
		return c.signup(ctx, args)
	case "polls":
		return c.polls(ctx, args)
	case "poll":
		return c.poll(ctx, args)
	case "vote":
		return c.vote(ctx, args)
	case "comments":
		return c.comments(ctx, args)
	case "comment":
		return c.comment(ctx, args)
	case "create-poll":
		return c.createPoll(ctx, args)
	case "delete-poll":
		return c.deletePoll(ctx, args)
	case "stats":
		return c.stats(ctx)
	case "username":
		return c.username(ctx, args)
	case "avatar":
		return c.avatar(ctx, args)
	case "oauth":
		return c.oauth(args)
	default:
		fmt.Fprintf(c.errOut, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) need(args []string, n int, what string) error {
	if len(args) < n {
		fmt.Fprintf(c.errOut, "expected %s\n", what)
		return errUsage
	}
	return nil
}

func (c *cli) whoami() error {
	user, ok := c.app.Session.User()
	if !ok {
		fmt.Fprintln(c.out, "anonymous")
		return nil
	}
	fmt.Fprintf(c.out, "%s <%s> id=%s role=%s\n", user.DisplayName(), user.Email, user.ID, user.Role)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.app.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "signed out")
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := c.flags("signup")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	form := validation.SignUp{
		FirstName:       *first,
		LastName:        *last,
		Email:           c.email,
		Password:        c.password,
		ConfirmPassword: c.password,
	}
	if err := form.Validate(); err != nil {
		return err
	}

	user, err := c.app.Session.Register(ctx, form.Request())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "welcome, %s\n", user.DisplayName())
	return nil
}

func (c *cli) polls(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "a collection: active, finished, mine or recent"); err != nil {
		return err
	}
	collection := args[0]

	fs := c.flags("polls")
	page := fs.Int("page", 1, "page number")
	category := fs.String("category", string(models.AllCategories), "category filter")
	sortKey := fs.String("sort", string(polls.SortNewest), "newest, oldest, most-votes or most-comments")
	search := fs.String("search", "", "title filter")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	cat, err := models.ParseCategory(*category)
	if err != nil {
		return err
	}

	var path string
	switch collection {
	case "recent":
		recent, err := c.app.Polls.Recent(ctx)
		if err != nil {
			return err
		}
		c.printPolls(polls.View(recent, *search, polls.SortKey(*sortKey)), false)
		return nil
	case "active":
		path = api.PathActivePolls
	case "finished":
		path = api.PathFinishedPolls
	case "mine":
		user, ok := c.app.Session.User()
		if !ok {
			return failure.SignIn("/dashboard")
		}
		path = api.PathUserPolls(user.ID)
	default:
		fmt.Fprintf(c.errOut, "unknown collection %q\n", collection)
		return errUsage
	}

	list := c.app.List(path)
	if err := list.Load(ctx, *page, cat); err != nil {
		return err
	}

	snap := list.Snapshot()
	c.printPolls(polls.View(snap.Polls, *search, polls.SortKey(*sortKey)), snap.HasMore)
	return nil
}

func (c *cli) printPolls(list []models.Poll, hasMore bool) {
	if len(list) == 0 {
		fmt.Fprintln(c.out, "no polls")
		return
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tVOTES\tCOMMENTS\tSTATUS")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.Category, humanize.Comma(int64(p.Votes)), humanize.Comma(int64(p.Comments)), status(p))
	}
	tw.Flush()

	if hasMore {
		fmt.Fprintln(c.out, "more polls available, use -page")
	}
}

func status(p models.Poll) string {
	switch s := p.State.(type) {
	case models.Active:
		return fmt.Sprintf("%d %s left", s.DaysLeft, plural(s.DaysLeft, "day", "days"))
	case models.Finished:
		if s.Winner.IsDraw() {
			return "ended " + humanize.Time(s.EndedAt) + ", draw"
		}
		winner := string(s.Winner)
		if o, ok := p.Option(winner); ok {
			winner = o.Name
		}
		return "ended " + humanize.Time(s.EndedAt) + ", won by " + winner
	default:
		return string(p.Status())
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (c *cli) poll(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "a poll id"); err != nil {
		return err
	}

	p, err := c.app.Polls.Get(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s\n%s\n%s · %s · %s votes · %s\n\n",
		p.Title, p.Description, p.Category, p.Creator, humanize.Comma(int64(p.Votes)), status(p))

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, o := range p.Options {
		share := 0.0
		if p.Votes > 0 {
			share = float64(o.Count) * 100 / float64(p.Votes)
		}
		mark := " "
		if p.UserVote != nil && p.UserVote.OptionID == o.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s%%\n", mark, o.ID, o.Name, o.Count, humanize.FtoaWithDigits(share, 1))
	}
	return tw.Flush()
}

func (c *cli) vote(ctx context.Context, args []string) error {
	if err := c.need(args, 2, "a poll id and an option"); err != nil {
		return err
	}

	p, err := c.app.Polls.Get(ctx, args[0])
	if err != nil {
		return err
	}

	optionID := args[1]
	if _, ok := p.Option(optionID); !ok {
		idx := slices.IndexFunc(p.Options, func(o models.PollOption) bool {
			return strings.EqualFold(o.Name, args[1])
		})
		if idx < 0 {
			fmt.Fprintf(c.errOut, "poll has no option %q\n", args[1])
			return errUsage
		}
		optionID = p.Options[idx].ID
	}

	if err := c.app.Voting.Submit(ctx, voting.Request{Poll: p, OptionID: optionID}); err != nil {
		return err
	}

	if current := c.app.State.Poll(); current != nil {
		fmt.Fprintf(c.out, "vote recorded, %s votes\n", humanize.Comma(int64(current.Votes)))
	}
	return nil
}

func (c *cli) comments(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "a poll id"); err != nil {
		return err
	}

	fs := c.flags("comments")
	watch := fs.Bool("watch", false, "keep printing new comments")
	if err := fs.Parse(args[1:]); err != nil {
		return errUsage
	}

	thread := c.app.Comments(args[0])
	if err := thread.Load(ctx); err != nil {
		return err
	}

	seen := make(map[string]bool)
	printNew := func() {
		list := thread.Comments()
		// Oldest first so new ones land at the bottom.
		for i := len(list) - 1; i >= 0; i-- {
			cm := list[i]
			if seen[cm.ID] {
				continue
			}
			seen[cm.ID] = true
			fmt.Fprintf(c.out, "%s (%s): %s\n", cm.Username, comments.Age(cm, time.Now()), cm.Content)
		}
	}
	printNew()

	if !*watch {
		if len(seen) == 0 {
			fmt.Fprintln(c.out, "no comments yet")
		}
		return nil
	}

	interval := c.app.CommentsRefresh()
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	go thread.Watch(ctx, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printNew()
		}
	}
}

func (c *cli) comment(ctx context.Context, args []string) error {
	if err := c.need(args, 2, "a poll id and the comment text"); err != nil {
		return err
	}

	thread := c.app.Comments(args[0])
	if err := thread.Submit(ctx, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "comment posted")
	return nil
}

// optionList collects a repeated -option flag.
type optionList []string

func (o *optionList) String() string { return strings.Join(*o, ", ") }

func (o *optionList) Set(v string) error {
	*o = append(*o, v)
	return nil
}

func (c *cli) createPoll(ctx context.Context, args []string) error {
	fs := c.flags("create-poll")
	var form validation.CreatePoll
	var options optionList
	var category string
	fs.StringVar(&form.Title, "title", "", "poll question")
	fs.StringVar(&form.Description, "description", "", "optional description")
	fs.StringVar(&category, "category", "", "category")
	fs.IntVar(&form.Days, "days", 7, "how many days the poll stays open")
	fs.Var(&options, "option", "an answer; repeat for each option")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	form.Category = models.Category(category)
	form.Options = options

	if err := c.app.Polls.Create(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "poll created")
	return nil
}

func (c *cli) deletePoll(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "a poll id"); err != nil {
		return err
	}
	if err := c.app.Polls.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "poll deleted")
	return nil
}

func (c *cli) stats(ctx context.Context) error {
	stats, err := c.app.Profile.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "polls: %s\nvotes: %s\ncomments: %s\n",
		humanize.Comma(int64(stats.TotalPolls)),
		humanize.Comma(int64(stats.TotalVotes)),
		humanize.Comma(int64(stats.TotalComments)),
	)
	return nil
}

func (c *cli) username(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "a username"); err != nil {
		return err
	}
	if err := c.app.Profile.SetUsername(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "username set to %s\n", args[0])
	return nil
}

func (c *cli) avatar(ctx context.Context, args []string) error {
	if err := c.need(args, 1, "an image file"); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := c.app.Profile.UploadAvatar(ctx, filepath.Base(args[0]), f); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "avatar updated")
	return nil
}

func (c *cli) oauth(args []string) error {
	if err := c.need(args, 1, "a provider: github or google"); err != nil {
		return err
	}

	provider := api.Provider(args[0])
	if provider != api.ProviderGitHub && provider != api.ProviderGoogle {
		fmt.Fprintf(c.errOut, "unknown provider %q\n", args[0])
		return errUsage
	}
	fmt.Fprintln(c.out, c.app.Session.OAuthURL(provider))
	return nil
}
