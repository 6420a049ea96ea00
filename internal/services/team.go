package services

import (
	"errors"

	"github.com/PuzzleTechHub/myus/internal/metrics"
	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// TeamForUser returns the team a user belongs to within a hunt, or
// ErrNotOnTeam. There is at most one; the unique index on team_members
// guarantees it.
func (s *TeamService) TeamForUser(huntID, userID uint) (*models.Team, error) {
	var member models.TeamMember
	if err := s.db.Where("hunt_id = ? AND user_id = ?", huntID, userID).
		First(&member).Error; err != nil {
		return nil, ErrNotOnTeam
	}

	var team models.Team
	if err := s.db.Preload("Members.User").First(&team, member.TeamID).Error; err != nil {
		return nil, ErrTeamNotFound
	}
	return &team, nil
}

func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.Preload("Members.User").First(&team, teamID).Error; err != nil {
		return nil, ErrTeamNotFound
	}
	return &team, nil
}

func (s *TeamService) CreateTeam(huntID, userID uint, name string) (*models.Team, error) {
	var hunt models.Hunt
	if err := s.db.First(&hunt, huntID).Error; err != nil {
		return nil, ErrHuntNotFound
	}

	team := models.Team{HuntID: huntID, Name: name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var memberships int64
		if err := tx.Model(&models.TeamMember{}).
			Where("hunt_id = ? AND user_id = ?", huntID, userID).
			Count(&memberships).Error; err != nil {
			return err
		}
		if memberships > 0 {
			return ErrAlreadyOnTeam
		}

		if err := tx.Create(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTeamNameTaken
			}
			return err
		}
		if err := tx.Create(&models.TeamMember{
			TeamID: team.ID,
			HuntID: huntID,
			UserID: userID,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOnTeam
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TeamsCreated.Inc()
	return s.GetTeam(team.ID)
}

// InviteMember invites a user by username. Organizers can't be invited, and
// existing members and pending invitees are rejected with distinct errors.
func (s *TeamService) InviteMember(teamID, inviterID uint, username string) error {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return err
	}

	var inviterRow models.TeamMember
	if err := s.db.Where("team_id = ? AND user_id = ?", teamID, inviterID).
		First(&inviterRow).Error; err != nil {
		return ErrNotOnTeam
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	var organizerCount int64
	s.db.Model(&models.HuntOrganizer{}).
		Where("hunt_id = ? AND user_id = ?", team.HuntID, user.ID).
		Count(&organizerCount)
	if organizerCount > 0 {
		return ErrOrganizerInvite
	}

	var memberCount int64
	s.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, user.ID).
		Count(&memberCount)
	if memberCount > 0 {
		return ErrAlreadyMember
	}

	invite := models.TeamInvite{TeamID: teamID, UserID: user.ID}
	if err := s.db.Create(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyInvited
		}
		return err
	}
	return nil
}

// AcceptInvite turns a pending invite into membership: the member row is
// added and the invite removed in one transaction. A user already on a team
// in the hunt can't accept, and the unique membership index backstops the
// check under concurrency.
func (s *TeamService) AcceptInvite(teamID, userID uint) (*models.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	var hunt models.Hunt
	if err := s.db.First(&hunt, team.HuntID).Error; err != nil {
		return nil, ErrHuntNotFound
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var invite models.TeamInvite
		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			First(&invite).Error; err != nil {
			return ErrNoInvite
		}

		var memberships int64
		if err := tx.Model(&models.TeamMember{}).
			Where("hunt_id = ? AND user_id = ?", team.HuntID, userID).
			Count(&memberships).Error; err != nil {
			return err
		}
		if memberships > 0 {
			return ErrAlreadyOnTeam
		}

		if hunt.MemberLimit > 0 {
			var size int64
			if err := tx.Model(&models.TeamMember{}).
				Where("team_id = ?", teamID).
				Count(&size).Error; err != nil {
				return err
			}
			if size >= int64(hunt.MemberLimit) {
				return ErrTeamFull
			}
		}

		if err := tx.Create(&models.TeamMember{
			TeamID: teamID,
			HuntID: team.HuntID,
			UserID: userID,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyOnTeam
			}
			return err
		}
		return tx.Delete(&invite).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetTeam(teamID)
}

// ListInvites returns the teams that invited a user within a hunt.
func (s *TeamService) ListInvites(huntID, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.
		Joins("JOIN team_invites ON team_invites.team_id = teams.id").
		Where("teams.hunt_id = ? AND team_invites.user_id = ?", huntID, userID).
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}
