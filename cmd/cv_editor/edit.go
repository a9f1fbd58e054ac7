package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/editing"
	"github.com/jonathan/cv-editor/internal/types"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit fields of a stored document",
	Long: `Edit fields of a stored document. Localized fields are written in the
locale selected with --locale; the other locale is left untouched.`,
}

var editPersonalCmd = &cobra.Command{
	Use:   "personal <document-id> <field> <value>",
	Short: "Set a personal info field (name, title, email, phone, location, linkedin, github)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editPersonal(l, args[1], args[2])
		})
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "profile <document-id> <text>",
	Short: "Set the professional summary",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editProfile(l, args[1])
		})
	},
}

var editEntryCmd = &cobra.Command{
	Use:   "entry <document-id> <experience|education> <index> <field> <value>",
	Short: "Set one field of an experience or education entry",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[2])
		if err != nil {
			return err
		}
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editEntry(l, types.Section(args[1]), index, args[3], args[4])
		})
	},
}

var editResponsibilitiesCmd = &cobra.Command{
	Use:   "responsibilities <document-id> <index> [item...]",
	Short: "Replace the responsibilities of an experience entry",
	Long:  "Replace the responsibilities of an experience entry. Blank items are dropped; --remove deletes a single item instead.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[1])
		if err != nil {
			return err
		}
		remove := -1
		if cmd.Flags().Changed("remove") {
			remove, _ = cmd.Flags().GetInt("remove")
		}
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editResponsibilities(l, index, args[2:], remove)
		})
	},
}

var editAddCmd = &cobra.Command{
	Use:   "add <document-id> <experience|education>",
	Short: "Append a placeholder entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editAppend(l, types.Section(args[1]))
		})
	},
}

var editMoveCmd = &cobra.Command{
	Use:   "move <document-id> <experience|education> <index> <up|down>",
	Short: "Swap an entry with its neighbor",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[2])
		if err != nil {
			return err
		}
		dir, err := document.ParseDirection(args[3])
		if err != nil {
			return err
		}
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editMove(l, types.Section(args[1]), index, dir)
		})
	},
}

var editRemoveCmd = &cobra.Command{
	Use:   "remove <document-id> <experience|education> <index>",
	Short: "Remove an entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[2])
		if err != nil {
			return err
		}
		return runEdit(cmd, args[0], func(l types.Locale) editFunc {
			return editRemove(l, types.Section(args[1]), index)
		})
	},
}

var editSkillsCmd = &cobra.Command{
	Use:   "skills <document-id> <set|rename|remove> <category> [args...]",
	Short: "Edit skill categories",
	Long: `Edit skill categories:

  skills <id> set <category> [skill...]   replace or add a category
  skills <id> rename <from> <to>          rename, overwriting an existing <to>
  skills <id> remove <category>           delete a category`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fn, err := editSkills(args[1], args[2], args[3:])
		if err != nil {
			return err
		}
		return runEdit(cmd, args[0], func(types.Locale) editFunc { return fn })
	},
}

func init() {
	editResponsibilitiesCmd.Flags().Int("remove", -1, "Index of a single item to remove")

	editCmd.AddCommand(editPersonalCmd)
	editCmd.AddCommand(editProfileCmd)
	editCmd.AddCommand(editEntryCmd)
	editCmd.AddCommand(editResponsibilitiesCmd)
	editCmd.AddCommand(editAddCmd)
	editCmd.AddCommand(editMoveCmd)
	editCmd.AddCommand(editRemoveCmd)
	editCmd.AddCommand(editSkillsCmd)
	rootCmd.AddCommand(editCmd)
}

// editFunc applies one edit to a loaded document.
type editFunc func(store *document.Store) error

func runEdit(cmd *cobra.Command, arg string, build func(l types.Locale) editFunc) error {
	cfg, repo, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer repo.Close()

	rec, err := withDocument(cmd.Context(), repo, arg, build(cfg.ActiveLocale()))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Document %s is at revision %d\n", rec.ID, rec.Revision)
	return nil
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return index, nil
}

// commit runs a one-shot edit session on f: begin, set the draft, commit.
func commit[T any](f *editing.Field[T], value T) error {
	f.BeginEdit()
	if err := f.SetDraft(value); err != nil {
		return err
	}
	return f.Commit()
}

func editPersonal(l types.Locale, field, value string) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		current := personalValue(store.Document().PersonalInfo, l, field)
		return commit(editing.NewField(current, func(v string) error {
			return view.UpdatePersonalField(field, v)
		}), value)
	}
}

func personalValue(p types.PersonalInfo, l types.Locale, field string) string {
	switch field {
	case "name":
		return p.Name
	case "title":
		return p.Title.Get(l)
	case "email":
		return p.Email
	case "phone":
		return p.Phone
	case "location":
		return p.Location
	case "linkedin":
		return p.LinkedIn
	case "github":
		return p.GitHub
	}
	return ""
}

func editProfile(l types.Locale, text string) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		return commit(editing.NewField(store.Document().Profile.Get(l), func(v string) error {
			return view.UpdateSlice(types.SectionProfile, v)
		}), text)
	}
}

func editEntry(l types.Locale, section types.Section, index int, field, value string) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		switch section {
		case types.SectionExperience:
			return view.UpdateExperience(index, field, value)
		case types.SectionEducation:
			return view.UpdateEducation(index, field, value)
		}
		return sequenceError(section)
	}
}

// editResponsibilities replaces the responsibilities of entry index with
// items, or removes the single item at remove when it is not negative.
func editResponsibilities(l types.Locale, index int, items []string, remove int) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		entries := store.Document().Experience.Get(l)
		if index >= len(entries) {
			return &document.IndexError{Section: string(types.SectionExperience), Index: index, Len: len(entries)}
		}

		list := editing.NewList(entries[index].Responsibilities, func(v []string) error {
			return view.UpdateExperience(index, "responsibilities", v)
		})
		list.BeginEdit()
		if remove >= 0 {
			if err := list.RemoveItem(remove); err != nil {
				return err
			}
		} else if err := list.SetDraft(items); err != nil {
			return err
		}
		return list.Commit()
	}
}

func editAppend(l types.Locale, section types.Section) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		switch section {
		case types.SectionExperience:
			return view.AppendExperience(types.NewExperienceEntry(l))
		case types.SectionEducation:
			return view.AppendEducation(types.NewEducationEntry(l))
		}
		return sequenceError(section)
	}
}

func editMove(l types.Locale, section types.Section, index int, dir document.Direction) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		var moved bool
		var err error
		switch section {
		case types.SectionExperience:
			moved, err = view.MoveExperience(index, dir)
		case types.SectionEducation:
			moved, err = view.MoveEducation(index, dir)
		default:
			return sequenceError(section)
		}
		if err == nil && !moved {
			return fmt.Errorf("cannot move %s %d %s", section, index, dir)
		}
		return err
	}
}

func editRemove(l types.Locale, section types.Section, index int) editFunc {
	return func(store *document.Store) error {
		view := store.In(l)
		var removed bool
		var err error
		switch section {
		case types.SectionExperience:
			removed, err = view.RemoveExperience(index)
		case types.SectionEducation:
			removed, err = view.RemoveEducation(index)
		default:
			return sequenceError(section)
		}
		if err == nil && !removed {
			return fmt.Errorf("%s has no entry %d", section, index)
		}
		return err
	}
}

// editSkills builds a skills edit. Categories are shared by both locales.
func editSkills(op, category string, rest []string) (editFunc, error) {
	var apply func(s *editing.Skills) error
	switch op {
	case "set":
		apply = func(s *editing.Skills) error {
			if err := s.AddCategory(category); err != nil {
				return err
			}
			draft := s.Draft()
			draft.Set(category, rest)
			return s.SetDraft(draft)
		}
	case "rename":
		if len(rest) != 1 || rest[0] == "" {
			return nil, fmt.Errorf("rename needs a new category name")
		}
		apply = func(s *editing.Skills) error { return s.RenameCategory(category, rest[0]) }
	case "remove":
		apply = func(s *editing.Skills) error { return s.RemoveCategory(category) }
	default:
		return nil, fmt.Errorf("unknown skills operation %q (valid: set, rename, remove)", op)
	}
	if category == "" {
		return nil, fmt.Errorf("skill category name is empty")
	}

	return func(store *document.Store) error {
		skills := editing.NewSkills(store.Document().Skills, func(v types.SkillSet) error {
			return store.ReplaceSection(types.SectionSkills, v)
		})
		skills.BeginEdit()
		if err := apply(skills); err != nil {
			return err
		}
		return skills.Commit()
	}, nil
}

func sequenceError(section types.Section) error {
	return fmt.Errorf("%q is not an entry sequence (valid: experience, education)", section)
}
