package store

import "tguardian/monitor-api/internal/domain"

// DefaultNotificationSettings are the values the dashboard ships with.
func DefaultNotificationSettings() domain.NotificationSettings {
	return domain.NotificationSettings{
		ID:                               1,
		CriticalAlertEmailsEnabled:       true,
		HighPriorityNotificationsEnabled: true,
		AlertEmailAddress:                "security@tma-innovation.com",
		DailySummaryReportEnabled:        true,
		RiskScoreThresholdForCritical:    domain.SeverityCritical,
		RiskScoreThresholdForHigh:        domain.SeverityHigh,
	}
}

// DefaultDetectionSettings are the values the dashboard ships with.
func DefaultDetectionSettings() domain.DetectionSettings {
	return domain.DetectionSettings{
		ID:                            1,
		RiskScoreThreshold:            0.80,
		DuplicateDetectionWindowHours: 24,
		AIEnhancedDetectionEnabled:    true,
	}
}

// NotificationSettings returns the current notification settings.
func (s *Store) NotificationSettings() domain.NotificationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications
}

// UpdateNotificationSettings applies fn to the current settings under the
// write lock and returns the result. The id is preserved.
func (s *Store) UpdateNotificationSettings(fn func(*domain.NotificationSettings)) domain.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.notifications.ID
	fn(&s.notifications)
	s.notifications.ID = id
	return s.notifications
}

// DetectionSettings returns the current detection settings.
func (s *Store) DetectionSettings() domain.DetectionSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detection
}

// UpdateDetectionSettings applies fn to the current settings under the write
// lock and returns the result. The id is preserved.
func (s *Store) UpdateDetectionSettings(fn func(*domain.DetectionSettings)) domain.DetectionSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.detection.ID
	fn(&s.detection)
	s.detection.ID = id
	return s.detection
}
