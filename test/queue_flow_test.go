package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"metapool/internal/handlers"
	"metapool/internal/storage"
	"metapool/internal/tasks"
	"metapool/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// AuthMiddlewareTest подставляет adminID из заголовка вместо проверки JWT.
func AuthMiddlewareTest() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminIDStr := c.Request.Header.Get("X-Test-AdminID")
		if adminIDStr == "" {
			// Значение по умолчанию
			c.Set("adminID", uint(1))
		} else {
			id, err := strconv.Atoi(adminIDStr)
			if err != nil {
				c.Set("adminID", uint(1))
			} else {
				c.Set("adminID", uint(id))
			}
		}
		c.Next()
	}
}

var hubOnce sync.Once

func setupTestServer() *httptest.Server {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load("../.env")
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectTestingDatabase()

	if err := storage.Migrate(); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.DB.Exec("TRUNCATE TABLE admin_users, participants RESTART IDENTITY CASCADE;")
	storage.DB.Exec("ALTER SEQUENCE participant_tokens RESTART WITH 1")
	storage.DB.Exec("UPDATE queue_settings SET current_token = 0")

	storage.InitRedis()
	handlers.InvalidateStatusCache()

	hubOnce.Do(func() {
		go ws.HubInstance.Run()
		tasks.InitScheduler()
	})

	r := gin.Default()

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.RegisterAdmin)
		authGroup.POST("/refresh", handlers.RefreshToken)
	}

	public := r.Group("/api")
	{
		public.GET("/queue/status", handlers.GetQueueStatusHandler)
		public.GET("/queue/ws", ws.QueueWebSocketHandler)
		public.POST("/participants", handlers.RegisterParticipantHandler)
	}

	admin := r.Group("/api", AuthMiddlewareTest())
	{
		admin.GET("/participants", handlers.ListParticipantsHandler)
		admin.POST("/participants/:id/done", handlers.MarkDoneHandler)
		admin.POST("/queue/start", handlers.StartQueueHandler)
		admin.POST("/queue/advance", handlers.AdvanceTokenHandler)
		admin.POST("/queue/skip", handlers.SkipCurrentHandler)
		admin.POST("/queue/reset", handlers.SoftResetHandler)
		admin.POST("/queue/reset/hard", handlers.HardResetHandler)
	}

	return httptest.NewServer(r)
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest("POST", url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-AdminID", "1")
	res, err := http.DefaultClient.Do(req)
	assert.NoError(t, err, "Ошибка HTTP запроса "+url)
	return res
}

func getQueueStatus(t *testing.T, ts *httptest.Server) map[string]interface{} {
	res, err := http.Get(ts.URL + "/api/queue/status")
	assert.NoError(t, err, "Ошибка запроса статуса очереди")
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var status map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	return status
}

func listParticipants(t *testing.T, ts *httptest.Server) []map[string]interface{} {
	req, _ := http.NewRequest("GET", ts.URL+"/api/participants", nil)
	req.Header.Set("X-Test-AdminID", "1")
	res, err := http.DefaultClient.Do(req)
	assert.NoError(t, err, "Ошибка запроса списка участников")
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var participants []map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&participants))
	return participants
}

// readEvent вычитывает WS-сообщения, пока не встретит нужный event_type.
// Попутные queue_snapshot от планировщика пропускаются.
func readEvent(t *testing.T, conn *websocket.Conn, want string) map[string]interface{} {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Ошибка чтения WS сообщения в ожидании %s: %v", want, err)
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal(msg, &parsed); err != nil {
			t.Fatalf("Ошибка разбора WS сообщения: %v", err)
		}
		if parsed["event_type"] == want {
			return parsed
		}
	}
	t.Fatalf("WS сообщение %s не получено", want)
	return nil
}

func TestQueueFlow(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	// 1. Регистрация Алисы: первый талон.
	res := postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Алиса", "roll_no": "R1"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Регистрация участника не удалась")
	var registered map[string]interface{}
	json.NewDecoder(res.Body).Decode(&registered)
	assert.Equal(t, float64(1), registered["token_number"], "Первому участнику полагается талон №1")

	// 2. До запуска: указатель на нуле, нужен запуск.
	status := getQueueStatus(t, ts)
	assert.Equal(t, float64(0), status["current_token"])
	assert.Equal(t, true, status["needs_start"])
	assert.Equal(t, float64(1), status["waiting_count"])
	assert.Nil(t, status["current"])

	// 3. Подключаем WS до мутаций, чтобы увидеть события.
	wsURL := "ws" + ts.URL[4:] + "/api/queue/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err, "Ошибка подключения к WS")
	defer conn.Close()

	// 4. Запуск очереди: указатель на талоне Алисы.
	res = postJSON(t, ts.URL+"/api/queue/start", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode, "Запуск очереди не удался")

	started := readEvent(t, conn, "queue_started")
	assert.Equal(t, float64(1), started["data"].(map[string]interface{})["current_token"])

	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(1), status["current_token"])
	current, ok := status["current"].(map[string]interface{})
	assert.True(t, ok, "После запуска должен быть текущий участник")
	assert.Equal(t, "Алиса", current["name"])

	// Повторный запуск запрещён.
	res = postJSON(t, ts.URL+"/api/queue/start", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Повторный запуск должен отклоняться")

	// 5. Вызов следующего: Алиса done, указатель на 2, текущего нет.
	res = postJSON(t, ts.URL+"/api/queue/advance", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode, "Advance не удался")

	advanced := readEvent(t, conn, "token_advanced")
	assert.Equal(t, float64(2), advanced["data"].(map[string]interface{})["current_token"])

	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(2), status["current_token"])
	assert.Nil(t, status["current"], "Талон 2 никем не занят")
	assert.Equal(t, float64(0), status["waiting_count"])

	participants := listParticipants(t, ts)
	assert.Len(t, participants, 1)
	assert.Equal(t, "done", participants[0]["status"], "После advance Алиса должна быть done")
}

func TestDuplicateRollNo(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Боб", "roll_no": "R2"})
	res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	res = postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Боб-2", "roll_no": "R2"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "Повторный roll_no должен отклоняться")
	var errBody map[string]interface{}
	json.NewDecoder(res.Body).Decode(&errBody)
	assert.Equal(t, "ROLL_NO_EXISTS", errBody["code"])

	assert.Len(t, listParticipants(t, ts), 1, "Неудачная регистрация не должна менять число участников")
}

func TestSkipAndMarkDone(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Вера", "roll_no": "R3"})
	res.Body.Close()
	res = postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Глеб", "roll_no": "R4"})
	res.Body.Close()

	res = postJSON(t, ts.URL+"/api/queue/start", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Пропуск текущего: Вера skipped, указатель ровно +1.
	res = postJSON(t, ts.URL+"/api/queue/skip", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status := getQueueStatus(t, ts)
	assert.Equal(t, float64(2), status["current_token"])

	participants := listParticipants(t, ts)
	assert.Equal(t, "skipped", participants[0]["status"])
	assert.Equal(t, "waiting", participants[1]["status"])

	// Пропущенного позже можно завершить вручную; указатель не на его талоне — не сдвигается.
	veraID := strconv.Itoa(int(participants[0]["id"].(float64)))
	res = postJSON(t, ts.URL+"/api/participants/"+veraID+"/done", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(2), status["current_token"], "markDone вне текущего талона не двигает указатель")
	participants = listParticipants(t, ts)
	assert.Equal(t, "done", participants[0]["status"])

	// markDone текущего участника двигает указатель.
	glebID := strconv.Itoa(int(participants[1]["id"].(float64)))
	res = postJSON(t, ts.URL+"/api/participants/"+glebID+"/done", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(3), status["current_token"], "markDone текущего участника сдвигает указатель")

	// Несуществующий участник.
	res = postJSON(t, ts.URL+"/api/participants/99999/done", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestResets(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	res := postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Дина", "roll_no": "R5"})
	res.Body.Close()
	res = postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Егор", "roll_no": "R6"})
	res.Body.Close()

	res = postJSON(t, ts.URL+"/api/queue/start", nil)
	res.Body.Close()
	res = postJSON(t, ts.URL+"/api/queue/advance", nil)
	res.Body.Close()

	// Сброс без подтверждения отклоняется.
	res = postJSON(t, ts.URL+"/api/queue/reset", map[string]interface{}{"confirm": false})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Мягкий сброс: все waiting, указатель 0.
	res = postJSON(t, ts.URL+"/api/queue/reset", map[string]interface{}{"confirm": true})
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status := getQueueStatus(t, ts)
	assert.Equal(t, float64(0), status["current_token"])
	for _, p := range listParticipants(t, ts) {
		assert.Equal(t, "waiting", p["status"])
	}

	// Идемпотентность: повторный мягкий сброс даёт то же состояние.
	res = postJSON(t, ts.URL+"/api/queue/reset", map[string]interface{}{"confirm": true})
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(0), status["current_token"])
	assert.Equal(t, float64(2), status["waiting_count"])

	// Полный сброс без контрольной фразы отклоняется.
	res = postJSON(t, ts.URL+"/api/queue/reset/hard", map[string]interface{}{"confirm": true, "phrase": "нет"})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, ts.URL+"/api/queue/reset/hard", map[string]interface{}{"confirm": true, "phrase": "RESET"})
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	status = getQueueStatus(t, ts)
	assert.Equal(t, float64(0), status["current_token"])
	assert.Equal(t, float64(0), status["total"])
	assert.Len(t, listParticipants(t, ts), 0)

	// После полного сброса нумерация талонов начинается заново.
	res = postJSON(t, ts.URL+"/api/participants", map[string]string{"name": "Дина", "roll_no": "R5"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode, "roll_no освобождается после полного сброса")
	var registered map[string]interface{}
	json.NewDecoder(res.Body).Decode(&registered)
	assert.Equal(t, float64(1), registered["token_number"], "После полного сброса талоны снова с №1")
}

func TestConcurrentAdvance(t *testing.T) {
	ts := setupTestServer()
	defer ts.Close()

	for i := 1; i <= 3; i++ {
		res := postJSON(t, ts.URL+"/api/participants", map[string]string{
			"name":    fmt.Sprintf("Участник %d", i),
			"roll_no": fmt.Sprintf("C%d", i),
		})
		res.Body.Close()
	}

	res := postJSON(t, ts.URL+"/api/queue/start", nil)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Два администратора жмут advance одновременно: порча состояния недопустима,
	// указатель растёт не больше чем на 2 (last write wins допустим).
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := postJSON(t, ts.URL+"/api/queue/advance", nil)
			res.Body.Close()
			assert.Equal(t, http.StatusOK, res.StatusCode)
		}()
	}
	wg.Wait()

	status := getQueueStatus(t, ts)
	token := status["current_token"].(float64)
	assert.GreaterOrEqual(t, token, float64(2))
	assert.LessOrEqual(t, token, float64(3))
}
